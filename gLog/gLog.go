package gLog

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	Trace   *log.Logger
	Info    *log.Logger
	Warning *log.Logger
	Error   *log.Logger
	Fatal   *log.Logger
	Debug   *log.Logger
)

func init() {
	Init(io.Discard, io.Discard, io.Discard, io.Discard, io.Discard, io.Discard)
}

// InitLog sets the loggers for cmd according to loglevel
//
//	1 error, 2 warning, 3 info, 4 trace, 5 debug
//
// logOutput is either "terminal" or a directory receiving one file per level under pid_<pid>/.
// The opened files are returned so the caller can close them on exit.
func InitLog(cmd string, loglevel int, logOutput string) []*os.File {

	if strings.ToLower(logOutput) == "terminal" {
		var (
			info, warn, trace, debug io.Writer = os.Stdout, os.Stdout, io.Discard, io.Discard
		)
		switch {
		case loglevel <= 1:
			info, warn = io.Discard, io.Discard
		case loglevel == 2:
			info = io.Discard
		}
		if loglevel >= 4 {
			trace = os.Stdout
		}
		if loglevel >= 5 {
			debug = os.Stdout
		}
		Init(info, warn, os.Stderr, os.Stderr, trace, debug)
		return nil
	}

	logOutput = filepath.Join(logOutput, "pid_"+strconv.Itoa(os.Getpid()))
	if err := os.MkdirAll(logOutput, 0755); err != nil {
		log.Printf("Error %v creating %s ", err, logOutput)
		log.Printf("Default logging")
		Init(os.Stdout, os.Stdout, os.Stderr, os.Stderr, io.Discard, io.Discard)
		return nil
	}

	logPath := filepath.Join(logOutput, cmd)
	var (
		files []*os.File
		errs  []error
	)
	open := func(suffix string) io.Writer {
		f, err := os.OpenFile(logPath+"_"+suffix+".log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0744)
		if err != nil {
			errs = append(errs, err)
			return io.Discard
		}
		files = append(files, f)
		return f
	}

	var (
		info, warn, trace, debug io.Writer = io.Discard, io.Discard, io.Discard, io.Discard
		erf                                = open("error")
		ftf                                = open("fatal")
	)
	if loglevel >= 2 {
		warn = open("warning")
	}
	if loglevel >= 3 {
		info = open("info")
	}
	if loglevel >= 4 {
		trace = open("trace")
	}
	if loglevel >= 5 {
		debug = open("debug")
	}

	if len(errs) > 0 {
		log.Printf("Errors opening log files %v", errs)
		log.Printf("Default logging")
		for _, f := range files {
			f.Close()
		}
		Init(os.Stdout, os.Stdout, os.Stderr, os.Stderr, io.Discard, io.Discard)
		return nil
	}
	Init(info, warn, erf, ftf, trace, debug)
	return files
}

func Init(infoHandle io.Writer, warningHandle io.Writer, errorHandle io.Writer, fatalHandle io.Writer, traceHandle io.Writer, debugHandle io.Writer) {

	Time := log.Ltime

	Trace = log.New(traceHandle,
		"TRACE: ",
		log.Ldate|Time|log.Lshortfile)

	Debug = log.New(debugHandle,
		"DEBUG: ",
		log.Ldate|Time|log.Lshortfile)

	Info = log.New(infoHandle,
		"INFO: ",
		log.Ldate|Time|log.Lshortfile)

	Warning = log.New(warningHandle,
		"WARNING: ",
		log.Ldate|Time|log.Lshortfile)

	Error = log.New(errorHandle,
		"ERROR: ",
		log.Ldate|Time|log.Lshortfile)

	Fatal = log.New(fatalHandle,
		"FATAL: ",
		log.Ldate|Time|log.Lshortfile)
}
