package tui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	stasherrors "stashwalk.dev/stashwalk/internal/errors"
	"stashwalk.dev/stashwalk/internal/utils"
)

// InputHook is called before the console blocks on input from a file; the
// returned function runs once the read returns.
type InputHook func() (done func())

// Console reads operator input one line at a time and writes prompts
type Console struct {
	in        io.Reader
	reader    *bufio.Reader
	out       io.Writer
	errOut    io.Writer
	styles    Styles
	useTTY    bool
	inputHook InputHook
	exhausted bool
}

// NewConsole creates a console over the given streams. Confirmations use an
// interactive survey prompt when both in and out are terminals.
func NewConsole(in io.Reader, out, errOut io.Writer, styles Styles) *Console {
	c := &Console{
		in:     in,
		reader: bufio.NewReader(in),
		out:    out,
		errOut: errOut,
		styles: styles,
	}
	inFile, inOK := in.(*os.File)
	outFile, outOK := out.(*os.File)
	c.useTTY = inOK && outOK && utils.IsInteractive(inFile) && utils.IsInteractive(outFile)
	return c
}

// Out returns the output stream
func (c *Console) Out() io.Writer {
	return c.out
}

// Err returns the error stream
func (c *Console) Err() io.Writer {
	return c.errOut
}

// Stdin returns the input stream when it is a file that child processes can
// share, and nil otherwise. Handing any other reader to a child process would
// let it consume input meant for the next prompt.
func (c *Console) Stdin() io.Reader {
	if f, ok := c.in.(*os.File); ok {
		return f
	}
	return nil
}

// SetInputHook installs a hook that runs around blocking reads from a file
func (c *Console) SetInputHook(hook InputHook) {
	c.inputHook = hook
}

// Exhausted reports whether a read has already hit the end of input
func (c *Console) Exhausted() bool {
	return c.exhausted
}

// ReadLine reads one line with surrounding whitespace removed.
// It returns errors.ErrEndOfInput once the input is exhausted.
func (c *Console) ReadLine() (string, error) {
	if c.exhausted {
		return "", stasherrors.ErrEndOfInput
	}
	if c.inputHook != nil && c.Stdin() != nil {
		done := c.inputHook()
		defer done()
	}

	line, err := c.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			c.exhausted = true
			if line == "" {
				return "", stasherrors.ErrEndOfInput
			}
			return strings.TrimSpace(line), nil
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Prompt writes text in the prompt style and reads the answer
func (c *Console) Prompt(text string) (string, error) {
	_, _ = fmt.Fprint(c.out, c.styles.Prompt.Render(text))
	return c.ReadLine()
}

// Confirm asks a yes/no question that defaults to no. When reading lines only
// "y" confirms. On a terminal the survey prompt also accepts "yes" in any case.
// End of input and an interrupted prompt both decline.
func (c *Console) Confirm(question string) (bool, error) {
	if c.useTTY {
		return c.surveyConfirm(question)
	}

	_, _ = fmt.Fprintf(c.out, "%s [y/N] ", question)
	answer, err := c.ReadLine()
	if errors.Is(err, stasherrors.ErrEndOfInput) {
		_, _ = fmt.Fprintln(c.out)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return answer == "y", nil
}

func (c *Console) surveyConfirm(question string) (bool, error) {
	confirmed := false
	prompt := &survey.Confirm{
		Message: question,
		Default: false,
	}
	inFile, _ := c.in.(*os.File)
	outFile, _ := c.out.(*os.File)
	errFile, ok := c.errOut.(*os.File)
	if !ok {
		errFile = outFile
	}
	err := survey.AskOne(prompt, &confirmed, survey.WithStdio(inFile, outFile, errFile))
	if errors.Is(err, terminal.InterruptErr) || errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return confirmed, nil
}

// Help writes text in the help style
func (c *Console) Help(text string) {
	_, _ = fmt.Fprintln(c.out, RenderLines(c.styles.Help, text))
}
