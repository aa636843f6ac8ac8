/*
 * gooz - Oz language compiler core
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package tool

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/krotik/common/fileutil"
	"github.com/krotik/common/stringutil"
	"github.com/krotik/common/termutil"

	"github.com/GelvinBelson/gooz/compiler"
	"github.com/GelvinBelson/gooz/config"
	"github.com/GelvinBelson/gooz/parser"
	"github.com/GelvinBelson/gooz/stdlib"
	"github.com/GelvinBelson/gooz/store"
	"github.com/GelvinBelson/gooz/util"
)

/*
Color definitions for console output.
*/
var (
	redColor    = color.New(color.FgRed)
	yellowColor = color.New(color.FgYellow)
)

/*
CLICompiler is a commandline interface for the Oz compiler.
*/
type CLICompiler struct {
	Store *store.Store // Store for all compiled values

	CustomHandler        CLIInputHandler // Customization of input handling
	CustomWelcomeMessage string          // Custom welcome message

	EntryFile string // Entry file to compile

	// Parameter these can either be set programmatically or via CLI args

	LogFile  *string // Logfile (blank for stdout)
	LogLevel *string // Log level string (Debug, Info, Error)

	// User terminal

	Term termutil.ConsoleLineTerminal

	// Log output

	LogOut io.Writer

	logger util.Logger // Logger of the compiler
}

/*
NewCLICompiler creates a new commandline interface for the Oz compiler.
*/
func NewCLICompiler() *CLICompiler {
	return &CLICompiler{store.NewStore(), nil, "", "", nil, nil, nil,
		os.Stdout, nil}
}

/*
ParseArgs parses the command line arguments. Call this after adding custom
flags. Returns true if the program should exit.
*/
func (i *CLICompiler) ParseArgs() bool {

	if i.LogFile != nil && i.LogLevel != nil {
		return false
	}

	i.LogFile = flag.String("logfile", config.Str(config.LogFile), "Log to a file")
	i.LogLevel = flag.String("loglevel", config.Str(config.LogLevel),
		"Logging level (Debug, Info, Error)")
	showHelp := flag.Bool("help", false, "Show this help message")

	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output())
		fmt.Fprintln(flag.CommandLine.Output(),
			fmt.Sprintf("Usage of %s run [options] [file]", osArgs[0]))
		fmt.Fprintln(flag.CommandLine.Output())
		flag.PrintDefaults()
		fmt.Fprintln(flag.CommandLine.Output())
	}

	if len(osArgs) >= 2 {
		flag.CommandLine.Parse(osArgs[2:])

		if cargs := flag.Args(); len(cargs) > 0 {
			i.EntryFile = flag.Arg(0)
		}

		if *showHelp {
			flag.Usage()
		}
	}

	return *showHelp
}

/*
CreateLogger creates the logger of the compiler. This function expects
LogFile and LogLevel to be set.
*/
func (i *CLICompiler) CreateLogger() error {
	var logger util.Logger
	var err error

	if i.logger != nil {
		return nil
	}

	// Check if we should log to a file

	if i.LogFile != nil && *i.LogFile != "" {
		var logWriter io.Writer

		logFileRollover := fileutil.SizeBasedRolloverCondition(1000000) // Each file can be up to a megabyte
		logWriter, err = fileutil.NewMultiFileBuffer(*i.LogFile,
			fileutil.ConsecutiveNumberIterator(10), logFileRollover)
		logger = util.NewBufferLogger(logWriter)

	} else {

		// Log to the console by default

		logger = util.NewStdOutLogger()
	}

	// Set the log level

	if err == nil {
		if i.LogLevel != nil && *i.LogLevel != "" {
			logger, err = util.NewLogLevelLogger(logger, *i.LogLevel)
		}

		if err == nil {
			i.logger = logger
		}
	}

	return err
}

/*
compileLogger returns the logger of the compiler. Defaults to a null
logger if no logger was created.
*/
func (i *CLICompiler) compileLogger() util.Logger {
	if i.logger == nil {
		i.logger = util.NewNullLogger()
	}
	return i.logger
}

/*
CreateTerm creates a new console terminal for stdout.
*/
func (i *CLICompiler) CreateTerm() error {
	var err error

	if i.Term == nil {
		i.Term, err = termutil.NewConsoleLineTerminal(os.Stdout)
	}

	return err
}

/*
Interpret starts the Oz compiler. Starts an interactive console in the
current tty if the interactive flag is set.
*/
func (i *CLICompiler) Interpret(interactive bool) error {

	if i.ParseArgs() {
		return nil
	}

	err := i.CreateTerm()

	if interactive {
		fmt.Fprintln(i.LogOut, fmt.Sprintf("gooz %v", config.ProductVersion))
	}

	if err == nil {

		if err = i.CreateLogger(); err == nil {

			if interactive {
				if lll, ok := i.logger.(*util.LogLevelLogger); ok {
					fmt.Fprintln(i.LogOut, fmt.Sprintf("Log level: %v", lll.Level()))
				}

				if i.CustomWelcomeMessage != "" {
					fmt.Fprintln(i.LogOut, i.CustomWelcomeMessage)
				}
			}

			// Compile the entry file if given

			if err = i.CompileInitialFile(); err == nil {

				// Drop into the interactive shell

				if interactive {
					err = i.runConsole()
				}
			}
		}
	}

	return err
}

/*
CompileInitialFile compiles the entry file if one was given.
*/
func (i *CLICompiler) CompileInitialFile() error {
	var err error

	if i.EntryFile != "" {
		var content []byte

		if content, err = ioutil.ReadFile(i.EntryFile); err == nil {
			var val store.Value

			val, err = compiler.CompileWithLogger(i.EntryFile, string(content),
				i.Store, i.compileLogger())

			if err == nil && val != nil {
				fmt.Fprintln(i.LogOut, val.String())
			}
		}
	}

	return err
}

/*
runConsole runs the interactive console until an exit line is entered.
*/
func (i *CLICompiler) runConsole() error {
	var err error
	var line string

	// Add history functionality with optional file persistence

	historyFile := config.Str(config.ReplHistoryFile)
	if ok, _ := fileutil.PathExists(historyFile); !ok {
		historyFile = ""
	}

	i.Term, err = termutil.AddHistoryMixin(i.Term, historyFile,
		func(s string) bool {
			return i.isExitLine(s)
		})

	if err == nil {

		if err = i.Term.StartTerm(); err == nil {
			defer i.Term.StopTerm()

			fmt.Fprintln(i.LogOut, "Type 'q' or 'quit' to exit the shell and '?' to get help")

			line, err = i.Term.NextLine()
			for err == nil && !i.isExitLine(line) {
				trimmedLine := strings.TrimSpace(line)

				i.HandleInput(i.Term, trimmedLine)

				line, err = i.Term.NextLine()
			}
		}
	}

	return err
}

/*
isExitLine returns if a given input line should exit the console.
*/
func (i *CLICompiler) isExitLine(s string) bool {
	return s == "exit" || s == "q" || s == "quit" || s == "bye" || s == "\x04"
}

/*
HandleInput handles input to this console. It compiles a given input line
and outputs on the given output terminal.
*/
func (i *CLICompiler) HandleInput(ot OutputTerminal, line string) {

	// Process the entered line

	if line == "?" {

		// Show help

		ot.WriteString(fmt.Sprintf("gooz %v\n", config.ProductVersion))
		ot.WriteString(fmt.Sprint("\n"))
		ot.WriteString(fmt.Sprint("Console supports all normal Oz statements and the following special commands:\n"))
		ot.WriteString(fmt.Sprint("\n"))
		ot.WriteString(fmt.Sprint("    @ast <code> - Show the AST of a given code snippet.\n"))
		ot.WriteString(fmt.Sprint("    @native [glob] - List all available native procedures.\n"))
		ot.WriteString(fmt.Sprint("\n"))
		ot.WriteString(fmt.Sprint("Add an argument after a list command to do a full text search. The search string should be in glob format.\n"))

	} else if strings.HasPrefix(line, "@ast") {
		i.displayAST(ot, strings.TrimSpace(line[4:]))

	} else if strings.HasPrefix(line, "@native") {
		i.displayNativeProcedures(ot, strings.Split(line, " ")[1:])

	} else if i.CustomHandler != nil && i.CustomHandler.CanHandle(line) {
		i.CustomHandler.Handle(ot, line)

	} else if line != "" {

		if config.Bool(config.TraceParser) {
			i.displayAST(ot, line)
		}

		val, ierr := compiler.CompileWithLogger("console input", line,
			i.Store, i.compileLogger())

		if ierr != nil {
			ot.WriteString(redColor.Sprintln(ierr.Error()))

		} else if val != nil {
			ot.WriteString(yellowColor.Sprintln(val.String()))
		}
	}
}

/*
displayAST parses a given code snippet and prints its AST.
*/
func (i *CLICompiler) displayAST(ot OutputTerminal, code string) {
	ast, err := parser.Parse("console input", code)

	if err != nil {
		ot.WriteString(redColor.Sprintln(err.Error()))
		return
	}

	ot.WriteString(parser.ASTString(ast))
}

/*
displayNativeProcedures lists all available native procedures.
*/
func (i *CLICompiler) displayNativeProcedures(ot OutputTerminal, args []string) {

	tabData := []string{"Native procedure", "Description"}

	for _, name := range stdlib.NativeProcedureNames() {
		p, _ := stdlib.GetNativeProcedure(name)

		if len(args) > 0 && !matchesFulltextSearch(ot,
			fmt.Sprintf("%v %v", p, p.DocString), args[0]) {
			continue
		}

		tabData = fillTableRow(tabData, p.String(), p.DocString)
	}

	if len(tabData) > 2 {
		ot.WriteString(stringutil.PrintGraphicStringTable(tabData, 2, 1,
			stringutil.SingleDoubleLineTable))
	}
}
