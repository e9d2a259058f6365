package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/Veraticus/bankdash/internal/common"
	"golang.org/x/net/html"
)

// Paths of the account forms.
const (
	PathLogin    = "/login"
	PathRegister = "/register"
)

// Account errors.
var (
	ErrLoginFailed    = errors.New("login failed")
	ErrRegisterFailed = errors.New("registration failed")
	ErrInvalidEmail   = errors.New("invalid email")
	ErrWeakPassword   = errors.New("weak password")
)

// MinPasswordLength is the shortest password the backend accepts on
// registration.
const MinPasswordLength = 10

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Registration is the register form.
type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// ValidEmail reports whether the backend accepts email on registration.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email) && !strings.Contains(email, "..")
}

// StrongPassword reports whether password has at least MinPasswordLength
// bytes and mixes lower and upper case letters, digits and a special
// character.
func StrongPassword(password string) bool {
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			special = true
		}
	}
	return len(password) >= MinPasswordLength && lower && upper && digit && special
}

// Login submits the login form and returns the session cookie the backend
// set. The client keeps the cookie for later requests.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{
		"email":    {strings.ToLower(strings.TrimSpace(email))},
		"password": {password},
	}
	status, body, err := c.submit(ctx, PathLogin, form)
	if err != nil {
		return "", err
	}
	if !redirected(status) {
		return "", common.NewUserError(formError(body, "Login failed. Either the email or password was incorrect."), ErrLoginFailed)
	}
	session := c.SessionCookie()
	if session == "" {
		return "", fmt.Errorf("%w: no %s cookie in response", ErrLoginFailed, c.sessionName)
	}
	return session, nil
}

// Register creates an account. The backend answers a successful
// registration with a redirect to the login form.
func (c *Client) Register(ctx context.Context, r Registration) error {
	if !ValidEmail(r.Email) {
		return common.NewUserError("Email format not valid.", ErrInvalidEmail)
	}
	if !StrongPassword(r.Password) {
		return common.NewUserError(fmt.Sprintf(
			"Password must be at least %d characters long and contain an uppercase letter, a lowercase letter, a digit and a special character.",
			MinPasswordLength), ErrWeakPassword)
	}

	form := url.Values{
		"firstname": {r.FirstName},
		"lastname":  {r.LastName},
		"email":     {strings.ToLower(r.Email)},
		"password":  {r.Password},
	}
	status, body, err := c.submit(ctx, PathRegister, form)
	if err != nil {
		return err
	}
	if !redirected(status) {
		return common.NewUserError(formError(body, "Registration failed."), ErrRegisterFailed)
	}
	return nil
}

func (c *Client) submit(ctx context.Context, path string, form url.Values) (int, []byte, error) {
	status, body, err := c.do(ctx, c.noRedirect, http.MethodPost, path,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return 0, nil, err
	}
	if status >= http.StatusBadRequest {
		return 0, nil, &common.StatusError{URL: path, StatusCode: status}
	}
	return status, body, nil
}

func redirected(status int) bool {
	return status >= http.StatusMultipleChoices && status < http.StatusBadRequest
}

// formError returns the text of the element with id "error" in a re-rendered
// form, or fallback.
func formError(page []byte, fallback string) string {
	doc, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		return fallback
	}
	var find func(*html.Node) string
	find = func(n *html.Node) string {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Key == "id" && a.Val == "error" {
					return strings.TrimSpace(text(n))
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if msg := find(child); msg != "" {
				return msg
			}
		}
		return ""
	}
	if msg := find(doc); msg != "" {
		return msg
	}
	return fallback
}

func text(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(text(child))
	}
	return b.String()
}
