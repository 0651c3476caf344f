package exec

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Command runs cmdString splitting it on spaces, no shell is involved.
// Single quotes wrapping an argument are removed.
func Command(cmdString string) (string, error) {
	nameCmd := strings.SplitN(strings.TrimSpace(cmdString), " ", 2)
	if len(nameCmd) != 2 {
		return "", errors.New("wrong cmd: " + cmdString)
	}

	args := strings.Fields(nameCmd[1])
	for i, arg := range args {
		args[i] = strings.TrimSuffix(strings.TrimPrefix(arg, "'"), "'")
	}

	return run(exec.Command(nameCmd[0], args...))
}

// CommandPipe runs cmdString through bash, so pipes are allowed.
func CommandPipe(cmdString string) (string, error) {
	return run(exec.Command("bash", "-c", cmdString))
}

func run(cmd *exec.Cmd) (string, error) {
	// If Env is nil, the new process uses the current process's environment.
	cmd.Env = os.Environ()

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	var stout bytes.Buffer
	cmd.Stdout = &stout

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%v: %s", err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSuffix(stout.String(), "\n"), nil
}
