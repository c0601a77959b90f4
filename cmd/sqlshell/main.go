package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/wippyai/sqlite-bridge/engine"
)

func main() {
	var (
		dbPath      = flag.String("db", ":memory:", "Database file to open")
		query       = flag.String("sql", "", "Statement to run (non-interactive)")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *query == "" && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: sqlshell [-db file] -sql <statement>")
		fmt.Fprintln(os.Stderr, "       sqlshell [-db file] -i  (interactive mode)")
		os.Exit(1)
	}

	conn, err := engine.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := registerDemoFunctions(conn); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(conn, *dbPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(conn, *query); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(conn *engine.Conn, sql string) error {
	names, err := conn.Columns(sql)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return conn.Exec(sql)
	}

	fmt.Println(strings.Join(names, " | "))
	return conn.Query(sql, func(cols []string) bool {
		fmt.Println(strings.Join(cols, " | "))
		return true
	})
}
