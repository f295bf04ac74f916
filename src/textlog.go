package mt63

/*------------------------------------------------------------------
 *
 * Purpose:	Save received text to a log file.
 *
 * Description: One CSV line per decoded block of text, with the time,
 *		signal to noise ratio, and frequency offset, for easy
 *		reading and later processing.
 *
 *		There are two alternatives here.
 *
 *		Daily names		Path is a directory.  A new file
 *					is started each day, UTC.
 *
 *		Single file		Path is the file name.  Typically
 *					logrotate would be used to keep
 *					size under control.
 *
 *------------------------------------------------------------------*/

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lestrrat-go/strftime"
)

const textLogHeader = "utime,isotime,snr,freq_offset,text"

// Daily file names, from the UTC date.
const textLogPattern = "%Y-%m-%d.txt"

type TextLog struct {
	daily    bool
	path     string // Directory for daily names, otherwise the file.
	fp       *os.File
	openName string
}

/*------------------------------------------------------------------
 *
 * Function:	NewTextLog
 *
 * Inputs:	daily	- True if daily names should be generated.
 *			  In this case path is a directory.
 *			  When false, path would be the file name.
 *
 *		path	- Log file name or just directory.
 *			  Empty string disables feature.
 *
 * Description:	The file is kept open.  We don't open/close for every
 *		new item.
 *
 *------------------------------------------------------------------*/

func NewTextLog(daily bool, path string) *TextLog {
	var l = &TextLog{daily: daily, path: "", fp: nil, openName: ""} //nolint:exhaustruct

	if path == "" {
		return l
	}

	if !daily {
		logger.Info("Log file", "path", path)
		l.path = path
		return l
	}

	var stat, statErr = os.Stat(path)

	switch {
	case statErr == nil && stat.IsDir():
		l.path = path
	case statErr == nil:
		logger.Error("Log file location is not a directory, using current working directory instead", "path", path)
		l.path = "."
	default:
		// Parent directory must exist.  We don't create multiple levels like "mkdir -p".
		if err := os.Mkdir(path, 0o755); err != nil { //nolint:gosec
			logger.Error("Failed to create log file location, using current working directory instead", "path", path, "err", err)
			l.path = "."
		} else {
			logger.Info("Log file location has been created", "path", path)
			l.path = path
		}
	}

	return l
}

/*------------------------------------------------------------------
 *
 * Function:	Write
 *
 * Purpose:	Save some received text.
 *
 * Inputs:	now	- When it was heard.
 *		snr	- Decoder signal to noise ratio.
 *		freq	- Frequency offset, Hz.
 *		text	- What was received.
 *
 *------------------------------------------------------------------*/

func (l *TextLog) Write(now time.Time, snr float64, freq float64, text string) error {
	if l.path == "" || text == "" {
		return nil
	}

	now = now.UTC()

	var full = l.path

	if l.daily {
		var fname, err = strftime.Format(textLogPattern, now)
		if err != nil {
			return fmt.Errorf("log file name: %w", err)
		}

		// Close current file if name has changed.
		if l.fp != nil && fname != l.openName {
			l.Close()
		}

		full = filepath.Join(l.path, fname)
		l.openName = fname
	}

	if l.fp == nil {
		// Write a header only if this will be the first line.
		var _, statErr = os.Stat(full)
		var alreadyThere = statErr == nil

		logger.Info("Opening log file", "path", full)

		var f, err = os.OpenFile(full, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644) //nolint:gosec
		if err != nil {
			l.openName = ""
			return fmt.Errorf("can't open log file %s for write: %w", full, err)
		}
		l.fp = f

		if !alreadyThere {
			fmt.Fprintln(l.fp, textLogHeader)
		}
	}

	var w = csv.NewWriter(l.fp)
	w.Write([]string{ //nolint:errcheck
		strconv.FormatInt(now.Unix(), 10),
		now.Format("2006-01-02T15:04:05Z"),
		strconv.FormatFloat(snr, 'f', 1, 64),
		strconv.FormatFloat(freq, 'f', 1, 64),
		text,
	})
	w.Flush()

	return w.Error()
}

// Close the current file.  The next Write opens it again.
func (l *TextLog) Close() error {
	if l.fp == nil {
		return nil
	}

	var err = l.fp.Close()
	l.fp = nil
	return err
}
