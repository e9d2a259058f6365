package api

import (
	"fmt"

	"github.com/Veraticus/bankdash/internal/common"
)

// Envelope is the status part every JSON response carries.
type Envelope struct {
	Success *string `json:"success,omitempty"`
	Error   *string `json:"error,omitempty"`
	Header  *string `json:"header,omitempty"`
}

// HeaderText returns the header or "".
func (e Envelope) HeaderText() string {
	if e.Header == nil {
		return ""
	}
	return *e.Header
}

// SuccessText returns the success message or "".
func (e Envelope) SuccessText() string {
	if e.Success == nil {
		return ""
	}
	return *e.Success
}

// Result turns the envelope into an error. A response is only successful
// when it carries a success message and no error.
func (e Envelope) Result() error {
	if e.Error != nil {
		return common.NewAppError(e.HeaderText(), *e.Error)
	}
	if e.Success == nil {
		return fmt.Errorf("%w: response carried neither success nor error", common.ErrMalformedResponse)
	}
	return nil
}
