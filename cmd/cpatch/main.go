package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/config"
	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/locale"
	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/patch"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailed  = 1
	exitInvalid = 2
)

func main() {
	os.Exit(run(os.Args[1:], env{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		connector: patch.DockerConnector{},
	}))
}

func run(args []string, e env) int {
	lang := preScanLanguage(args)
	if lang == "" {
		lang = os.Getenv(config.EnvLanguage)
	}
	msg, err := locale.New(lang)
	if err != nil {
		fmt.Fprintf(e.stderr, "cpatch: %v\n", err)
		return exitInvalid
	}
	e.msg = msg

	cmd := newRootCmd(&e)
	cmd.SetArgs(args)
	cmd.SetOut(e.stdout)
	cmd.SetErr(e.stderr)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		fmt.Fprintf(e.stderr, "cpatch: %v\n", err)
		return exitInvalid
	}
	return exitOK
}

// preScanLanguage finds --language before flags are parsed, so help text
// can be localized.
func preScanLanguage(args []string) string {
	for i, a := range args {
		if a == "--" {
			break
		}
		if v, ok := strings.CutPrefix(a, "--language="); ok {
			return v
		}
		if strings.EqualFold(a, "--language") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }
