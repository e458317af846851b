package importer

// messages.go maps internal errors to user-facing messages with support
// codes. Fatal import errors surface as a blocking message naming the
// precise cause; everything else gets a generic message plus the code
// for the operational logs.

import (
	"errors"
	"strings"

	"github.com/jvaldeolmillos/bc3-import/internal/bc3"
)

// UserMessage is what an end user sees when an import fails.
type UserMessage struct {
	Message string `json:"message"` // what happened
	Action  string `json:"action"`  // what to do about it
	Code    string `json:"code"`    // support reference
}

var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{
		err: ErrMissingFile,
		msg: UserMessage{
			Message: "No BC3 file was uploaded",
			Action:  "Please select a BC3 file and try again",
			Code:    "FILE004",
		},
	},
	{
		err: bc3.ErrUndecodable,
		msg: UserMessage{
			Message: "The file encoding could not be determined",
			Action:  "Re-save the file as UTF-8 or Windows-1252 (ANSI) and upload it again",
			Code:    "FILE003",
		},
	},
	{
		err: ErrNoConcepts,
		msg: UserMessage{
			Message: "No valid concepts were found in the BC3 file",
			Action:  "Check that the file is a BC3 export containing ~C records",
			Code:    "IMP001",
		},
	},
}

// Database errors arrive as wrapped pgx error text, so they are matched
// by substring like the rest of the stack does.
var patternMessages = []struct {
	pattern string
	msg     UserMessage
}{
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record created by this import already exists",
			Action:  "Please try again; contact support if the problem persists",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to the database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The import timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The import was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "The import failed unexpectedly",
	Action:  "Please try again; quote the error code to support if it keeps failing",
	Code:    "GEN001",
}

// MapError converts err into a user-facing message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, pm := range patternMessages {
		if strings.Contains(errStr, pm.pattern) {
			return pm.msg
		}
	}

	return defaultMessage
}
