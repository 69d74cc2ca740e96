package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/phil-mansfield/beamdpr/lib/egsphsp"
	"github.com/phil-mansfield/beamdpr/lib/ops"
)

// Exit codes for CLI commands.
const (
	ExitSuccess = 0 // Successful execution
	ExitFailure = 1 // The operation failed, or compared files differ
	ExitUsage   = 2 // Bad arguments, flags, or configuration
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error // Underlying error (optional)
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

// outputError marks a failure to write results as a runtime failure rather
// than a usage error.
func outputError(err error) error {
	var exitErr *ExitError
	if err == nil || errors.As(err, &exitErr) {
		return err
	}
	return WrapExitError(ExitFailure, "writing output", err)
}

// GetExitCode extracts the exit code from an error. Errors raised by
// operations on phase space files are failures; anything else that cobra
// returns (unknown commands, missing arguments) is a usage error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var opErr *egsphsp.Error
	if errors.As(err, &opErr) {
		return ExitFailure
	}
	return ExitUsage
}

// StatsFormats are the accepted values of stats --format.
var StatsFormats = []string{"human", "json", "yaml"}

// statsReport is what stats prints. Scan is only filled in with --scan.
type statsReport struct {
	ops.Stats `yaml:",inline"`
	Scan      *ops.ScanStats `json:"scan,omitempty" yaml:"scan,omitempty"`
}

// writeStats prints a report in the given format.
func writeStats(w io.Writer, format string, rep *statsReport) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(rep, "", "\t")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	case "yaml":
		buf := &bytes.Buffer{}
		enc := yaml.NewEncoder(buf)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	case "human":
		return writeHumanStats(w, rep)
	}
	return NewExitError(ExitUsage, fmt.Sprintf("invalid format %q: must "+
		"be one of %v", format, StatsFormats))
}

func writeHumanStats(w io.Writer, rep *statsReport) error {
	s := &rep.Stats
	lines := []string{
		fmt.Sprintf("Mode: %s", s.Mode),
		fmt.Sprintf("Total particles: %d", s.TotalParticles),
		fmt.Sprintf("Total photons: %d", s.TotalPhotons),
		fmt.Sprintf("Total electrons/positrons: %d", s.TotalElectrons),
		fmt.Sprintf("Maximum energy: %.4f MeV", s.MaxEnergy),
		fmt.Sprintf("Minimum energy: %.4f MeV", s.MinEnergy),
		fmt.Sprintf("Incident particles from source: %.1f",
			s.TotalParticlesInSource),
	}

	if sc := rep.Scan; sc != nil {
		lines = append(lines,
			fmt.Sprintf("Records scanned: %d", sc.Records),
			fmt.Sprintf("Photons scanned: %d", sc.Photons),
			fmt.Sprintf("New histories: %d", sc.NewHistories),
			fmt.Sprintf("Produced by brems/annihilation: %d", sc.Produced),
			fmt.Sprintf("X position in [%.4f, %.4f] cm", sc.MinX, sc.MaxX),
			fmt.Sprintf("Y position in [%.4f, %.4f] cm", sc.MinY, sc.MaxY),
			fmt.Sprintf("Total weight: %.4f", sc.TotalWeight),
		)
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
