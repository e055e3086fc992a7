package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPDF rejects files whose media type is not application/pdf.
	ErrNotPDF = errors.New("Please upload a PDF file")
	// ErrExtractionFailed is returned when text could not be extracted.
	ErrExtractionFailed = errors.New("Failed to extract text from PDF")
	// ErrEmptyFile rejects zero-byte uploads.
	ErrEmptyFile = errors.New("The selected file is empty")
	// ErrFileTooLarge rejects files above the configured limit.
	ErrFileTooLarge = errors.New("The selected file is too large")
)

const fallbackMessage = "Failed to process document. Please try again."

// StageError records which stage a run failed in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage recorded in err, if any.
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// UserMessage turns a pipeline error into the text shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrExtractionFailed):
		return ErrExtractionFailed.Error()
	case errors.Is(err, ErrNotPDF):
		return ErrNotPDF.Error()
	}
	var se *StageError
	if errors.As(err, &se) {
		if se.Err != nil && se.Err.Error() != "" {
			return se.Err.Error()
		}
		return fallbackMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackMessage
}
