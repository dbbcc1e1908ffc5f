package configuration

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// IOPrompter asks free-form questions over a reader/writer pair.
type IOPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

type promptReadOutcome struct {
	response string
	err      error
}

// NewIOPrompter constructs a prompter from the provided reader and writer.
func NewIOPrompter(input io.Reader, output io.Writer) *IOPrompter {
	return &IOPrompter{reader: bufio.NewReader(input), writer: output}
}

// Ask writes the prompt and returns the trimmed answer, or defaultAnswer when the answer is blank.
// A cancelled context abandons the pending read and returns the context error.
func (prompter *IOPrompter) Ask(executionContext context.Context, prompt string, defaultAnswer string) (string, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return "", contextError
	}

	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, prompt); writeError != nil {
			return "", writeError
		}
	}

	outcomes := make(chan promptReadOutcome, 1)
	go func() {
		response, readError := prompter.reader.ReadString('\n')
		outcomes <- promptReadOutcome{response: response, err: readError}
	}()

	var outcome promptReadOutcome
	select {
	case <-executionContext.Done():
		return "", executionContext.Err()
	case outcome = <-outcomes:
	}

	if outcome.err != nil && outcome.err != io.EOF {
		return "", outcome.err
	}

	trimmedResponse := strings.TrimSpace(outcome.response)
	if len(trimmedResponse) == 0 {
		return defaultAnswer, nil
	}
	return trimmedResponse, nil
}
