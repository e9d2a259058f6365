package i18n

// String keys.
const (
	KeyDeleteAccountHeader       = "delete_account_header"
	KeyDeleteAccountConfirmation = "delete_account_confirmation"
	KeyDeleteAccountButton       = "delete_account_button"
	KeyDeleteBankHeader          = "delete_bank_header"
	KeyDeleteBankConfirmation    = "delete_bank_confirmation"
	KeyDeleteBankButton          = "delete_bank_button"
	KeyMergeContractsHeader      = "merge_contracts_header"
	KeyMergeContractsBody        = "merge_contracts_confirmation"
	KeyMergeNeedsTwo             = "merge_contracts_need_two"
	KeyDeleteContractsHeader     = "delete_contracts_header"
	KeyDeleteContractsBody       = "delete_contracts_confirmation"
	KeyCancelButton              = "cancel_button"
	KeyConfirmButton             = "confirm_button"
	KeyCloseButton               = "close_button"
	KeyChangePasswordHeader      = "change_password_header"
	KeySuccessMessage            = "success_message"
	KeyLanguageSetSuccess        = "language_set_success"
	KeyLanguageSetError          = "language_set_error"
	KeyUnexpectedError           = "unexpected_error"
	KeyParseError                = "parse_error"
	KeyTransactionsHidden        = "transactions_hidden"
	KeyTransactionsHiddenBody    = "transactions_hidden_body"
	KeyTransactionsRemoved       = "transactions_removed"
	KeyTransactionsRemovedBody   = "transactions_removed_body"
	KeyTransactionShown          = "transaction_shown"
	KeyContractAllowed           = "contract_allowed"
	KeyContractNotAllowed        = "contract_not_allowed"
	KeyContractRemoved           = "contract_removed"
	KeyContractAdded             = "contract_added"
	KeyAmountMismatchHeader      = "amount_mismatch_header"
	KeyAmountMismatchBody        = "amount_mismatch_body"
	KeyResolutionNewAmount       = "resolution_new_amount"
	KeyResolutionHistorical      = "resolution_historical_amount"
	KeyResolutionJustAttach      = "resolution_just_attach"
	KeyOpenContracts             = "open_contracts"
	KeyClosedContracts           = "closed_contracts"
	KeyNoHistory                 = "no_history"
	KeyLoading                   = "loading"
	KeyLoadError                 = "load_error"
	KeyNoSelection               = "no_selection"
	KeyErrorHeader               = "error_header"
	KeyEmptyContractName         = "empty_contract_name"
	KeyLoginInvalidHeader        = "login_invalid_header"
	KeyLoginAgain                = "login_again"
	KeyNoContractsHeader         = "no_contracts_header"
	KeyNoContractsBody           = "no_contracts_body"
	KeyAddContractHeader         = "add_contract_header"
	KeyAddContractBody           = "add_contract_body"
	KeyOpenBankFirst             = "open_bank_first"
	KeyAllBanks                  = "all_banks"
	KeyNoPerformance             = "no_performance"
)

var catalog = map[Language]map[string]string{
	English: {
		KeyDeleteAccountHeader:       "Delete Account",
		KeyDeleteAccountConfirmation: "Are you sure you want to delete your account? This action cannot be undone.",
		KeyDeleteAccountButton:       "Delete Account",
		KeyDeleteBankHeader:          "Delete Bank",
		KeyDeleteBankConfirmation:    "Are you sure you want to delete this bank and all of its transactions?",
		KeyDeleteBankButton:          "Delete Bank",
		KeyMergeContractsHeader:      "Merge contracts",
		KeyMergeContractsBody:        "Merge %d selected contracts into one?",
		KeyMergeNeedsTwo:             "Please select at least 2 contracts to merge.",
		KeyDeleteContractsHeader:     "Delete contracts",
		KeyDeleteContractsBody:       "Delete %d selected contracts?",
		KeyCancelButton:              "Cancel",
		KeyConfirmButton:             "Confirm",
		KeyCloseButton:               "Close",
		KeyChangePasswordHeader:      "Change Password",
		KeySuccessMessage:            "Operation successful",
		KeyLanguageSetSuccess:        "Language set to ",
		KeyLanguageSetError:          "Failed to set language",
		KeyUnexpectedError:           "An unexpected error occurred",
		KeyParseError:                "Error parsing response",
		KeyTransactionsHidden:        "Transactions have been hidden successfully.",
		KeyTransactionsHiddenBody:    "A total of %d transactions have been hidden successfully.",
		KeyTransactionsRemoved:       "Selected transactions have been removed.",
		KeyTransactionsRemovedBody:   "A total of %d transactions have been removed successfully.",
		KeyTransactionShown:          "Transaction is visible again.",
		KeyContractAllowed:           "Transaction may be linked to contracts again.",
		KeyContractNotAllowed:        "Transaction will not be linked to contracts.",
		KeyContractRemoved:           "Transaction removed from its contract.",
		KeyContractAdded:             "Transaction added to the contract.",
		KeyAmountMismatchHeader:      "Amounts differ",
		KeyAmountMismatchBody:        "The contract amount %s differs from the transaction amount %s. How should the transaction be added?",
		KeyResolutionNewAmount:       "Use as new contract amount",
		KeyResolutionHistorical:      "Record as old contract amount",
		KeyResolutionJustAttach:      "Only add the transaction",
		KeyOpenContracts:             "Open Contracts",
		KeyClosedContracts:           "Closed Contracts",
		KeyNoHistory:                 "No history available.",
		KeyLoading:                   "Loading...",
		KeyLoadError:                 "Error loading content. Please try again.",
		KeyNoSelection:               "Nothing selected.",
		KeyErrorHeader:               "Error",
		KeyEmptyContractName:         "The contract name must not be empty.",
		KeyLoginInvalidHeader:        "Error validating the login!",
		KeyLoginAgain:                "Please login again.",
		KeyNoContractsHeader:         "No contracts",
		KeyNoContractsBody:           "Create a contract by scanning the transactions first.",
		KeyAddContractHeader:         "Add contract",
		KeyAddContractBody:           "Link the transaction to which contract?",
		KeyOpenBankFirst:             "Open a bank first.",
		KeyAllBanks:                  "All banks",
		KeyNoPerformance:             "No performance data.",
	},
	German: {
		KeyDeleteAccountHeader:       "Konto löschen",
		KeyDeleteAccountConfirmation: "Sind Sie sicher, dass Sie Ihr Konto löschen möchten? Diese Aktion kann nicht rückgängig gemacht werden.",
		KeyDeleteAccountButton:       "Konto löschen",
		KeyDeleteBankHeader:          "Bank löschen",
		KeyDeleteBankConfirmation:    "Sind Sie sicher, dass Sie diese Bank und alle Transaktionen löschen möchten?",
		KeyDeleteBankButton:          "Bank löschen",
		KeyMergeContractsHeader:      "Verträge zusammenführen",
		KeyMergeContractsBody:        "%d ausgewählte Verträge zusammenführen?",
		KeyMergeNeedsTwo:             "Bitte wählen Sie mindestens 2 Verträge zum Zusammenführen aus.",
		KeyDeleteContractsHeader:     "Verträge löschen",
		KeyDeleteContractsBody:       "%d ausgewählte Verträge löschen?",
		KeyCancelButton:              "Abbrechen",
		KeyConfirmButton:             "Bestätigen",
		KeyCloseButton:               "Schließen",
		KeyChangePasswordHeader:      "Passwort ändern",
		KeySuccessMessage:            "Aktion erfolgreich",
		KeyLanguageSetSuccess:        "Sprache geändert zu ",
		KeyLanguageSetError:          "Fehler beim Einstellen der Sprache",
		KeyUnexpectedError:           "Ein unerwarteter Fehler ist aufgetreten",
		KeyParseError:                "Fehler beim Lesen der Antwort",
		KeyTransactionsHidden:        "Transaktionen wurden ausgeblendet.",
		KeyTransactionsHiddenBody:    "Insgesamt %d Transaktionen wurden ausgeblendet.",
		KeyTransactionsRemoved:       "Ausgewählte Transaktionen wurden entfernt.",
		KeyTransactionsRemovedBody:   "Insgesamt %d Transaktionen wurden entfernt.",
		KeyTransactionShown:          "Transaktion ist wieder sichtbar.",
		KeyContractAllowed:           "Transaktion darf wieder Verträgen zugeordnet werden.",
		KeyContractNotAllowed:        "Transaktion wird keinem Vertrag zugeordnet.",
		KeyContractRemoved:           "Transaktion wurde aus dem Vertrag entfernt.",
		KeyContractAdded:             "Transaktion wurde dem Vertrag hinzugefügt.",
		KeyAmountMismatchHeader:      "Beträge unterscheiden sich",
		KeyAmountMismatchBody:        "Der Vertragsbetrag %s unterscheidet sich vom Transaktionsbetrag %s. Wie soll die Transaktion hinzugefügt werden?",
		KeyResolutionNewAmount:       "Als neuen Vertragsbetrag übernehmen",
		KeyResolutionHistorical:      "Als alten Vertragsbetrag speichern",
		KeyResolutionJustAttach:      "Nur die Transaktion hinzufügen",
		KeyOpenContracts:             "Offene Verträge",
		KeyClosedContracts:           "Geschlossene Verträge",
		KeyNoHistory:                 "Keine Historie vorhanden.",
		KeyLoading:                   "Lädt...",
		KeyLoadError:                 "Fehler beim Laden. Bitte versuchen Sie es erneut.",
		KeyNoSelection:               "Nichts ausgewählt.",
		KeyErrorHeader:               "Fehler",
		KeyEmptyContractName:         "Der Vertragsname darf nicht leer sein.",
		KeyLoginInvalidHeader:        "Fehler bei der Überprüfung der Anmeldung!",
		KeyLoginAgain:                "Bitte melden Sie sich erneut an.",
		KeyNoContractsHeader:         "Keine Verträge",
		KeyNoContractsBody:           "Erstellen Sie zuerst Verträge, indem Sie die Transaktionen durchsuchen.",
		KeyAddContractHeader:         "Vertrag hinzufügen",
		KeyAddContractBody:           "Welchem Vertrag soll die Transaktion zugeordnet werden?",
		KeyOpenBankFirst:             "Öffnen Sie zuerst eine Bank.",
		KeyAllBanks:                  "Alle Banken",
		KeyNoPerformance:             "Keine Leistungsdaten.",
	},
}
