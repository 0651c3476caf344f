package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/oblq/hwfan/internal/exec"
)

// Cli extracts the temperature from the output of a shell command,
// eg.: `sensors -j | jq '.["coretemp-isa-0000"]["Package id 0"].temp1_input'`.
// The command must print the temperature in °C.
type Cli struct {
	Cmd string

	// run is replaced in tests.
	run func(cmdString string) (string, error)
}

func New(cmd string) *Cli {
	return &Cli{Cmd: cmd, run: exec.CommandPipe}
}

// module interface implementation
func (cli *Cli) Name() string {
	return "cli"
}

// tempExtractor interface implementation
func (cli *Cli) ReadTemp() (milliC int, err error) {
	tString, err := cli.run(cli.Cmd)
	if err != nil {
		return 0, err
	}
	if tString == "" {
		return 0, fmt.Errorf("cpu 'cmd' returned an empty string: `%s`", cli.Cmd)
	}

	tString = strings.Trim(tString, " .°C")
	temp, err := strconv.ParseFloat(tString, 64)
	if err != nil {
		return 0, err
	}
	return int(math.Round(temp * 1000)), nil
}
