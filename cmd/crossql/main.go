package main

import (
	"fmt"
	"os"
)

const usage = `crossql - multi-dialect SQL toolbox

Usage:
  crossql <command> [arguments]

Commands:
  ping             Check connectivity to the configured database
  exec <sql>       Run a statement and print the result
  recover          List in-doubt prepared transactions on every
                   configured participant

Options:
  -c <path>        Configuration file (default crossql.ini)
  -h, --help       Show this help message

Configuration is read from crossql.ini; see the [database], [pool] and
[twophase] sections.
`

func main() {
	args := os.Args[1:]

	cfgPath := ""
	if len(args) >= 2 && args[0] == "-c" {
		cfgPath = args[1]
		args = args[2:]
	}

	if len(args) < 1 {
		fmt.Print(usage)
		os.Exit(0)
	}

	switch args[0] {
	case "-h", "--help", "help":
		fmt.Print(usage)
		os.Exit(0)

	case "ping":
		pingCmd(cfgPath)

	case "exec":
		if len(args) < 2 {
			fatal("'crossql exec' requires a SQL statement")
		}
		execCmd(cfgPath, args[1])

	case "recover":
		recoverCmd(cfgPath)

	default:
		fmt.Fprintf(os.Stderr, "error: unknown command: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 'crossql --help' for usage.")
		os.Exit(1)
	}
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, "error:", msg)
	os.Exit(1)
}

func fatalErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
