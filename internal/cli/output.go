package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/SteamAutoCracks/Steam-auto-crack/internal/steamapp"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Lookup found nothing (find) or the catalog could not be refreshed
	ExitCommandError = 2 // Command error (bad arguments, unreadable config, unusable catalog)
)

// Error codes reported in JSON error responses.
const (
	CodeInvalidArgs = "E001"
	CodeConfig      = "E002"
	CodeUnusable    = "E003"
	CodeNotFound    = "E004"
	CodeLookup      = "E005"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// textRenderer is implemented by payloads with their own text layout.
type textRenderer interface {
	RenderText(w io.Writer) error
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	if r, ok := data.(textRenderer); ok {
		return r.RenderText(f.Writer)
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.GetErrWriter(), "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.GetErrWriter(), "Details: %v\n", details)
	}
	return nil
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// appRows renders apps one per line as "<appid>\t<name>".
// In JSON it encodes as a plain array, never null.
type appRows []steamapp.App

func (r appRows) RenderText(w io.Writer) error {
	for _, app := range r {
		if err := writeApp(w, app); err != nil {
			return err
		}
	}
	return nil
}

func (r appRows) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]steamapp.App(r))
}

// appRow renders a single app.
type appRow steamapp.App

func (r appRow) RenderText(w io.Writer) error {
	return writeApp(w, steamapp.App(r))
}

func (r appRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(steamapp.App(r))
}

func writeApp(w io.Writer, app steamapp.App) error {
	_, err := fmt.Fprintf(w, "%d\t%s\n", app.AppID, app.NameOr(""))
	return err
}

// updateSummary is the update command payload.
type updateSummary struct {
	Count int    `json:"count"`
	Path  string `json:"path"`
}

func (s updateSummary) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "catalog has %d apps (%s)\n", s.Count, s.Path)
	return err
}

// configWritten is the createconfig command payload.
type configWritten struct {
	Path string `json:"path"`
}

func (c configWritten) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "wrote config to %s\n", c.Path)
	return err
}
