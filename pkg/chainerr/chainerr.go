// Package chainerr classifies errors coming back from the node or the wallet
// and turns them into text that is safe to show to a user.
package chainerr

import (
	"errors"
	"regexp"
	"strings"

	"betting-service/domain"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

const DefaultFallback = "Something went wrong!"

// Wallet and provider error codes.
const (
	CodeActionRejected       = "ACTION_REJECTED"
	CodeInsufficientFunds    = "INSUFFICIENT_FUNDS"
	CodeNetworkError         = "NETWORK_ERROR"
	CodeTimeout              = "TIMEOUT"
	CodeUnsupportedOperation = "UNSUPPORTED_OPERATION"

	RPCCodeUserRejected = 4001
	RPCCodeInternal     = -32603
)

// Error carries a symbolic code alongside a message.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

var (
	prefixColon  = regexp.MustCompile(`(?i)^Error:\s*`)
	prefixSpace  = regexp.MustCompile(`(?i)^Error\s+`)
	revertReason = regexp.MustCompile(`(?i)reverted:\s*(.+?)(?:\n|$)`)
)

// IsUserRejection reports whether err means the user declined a prompt.
func IsUserRejection(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrUserRejected) {
		return true
	}
	var ce *Error
	if errors.As(err, &ce) && ce.Code == CodeActionRejected {
		return true
	}
	var re rpc.Error
	if errors.As(err, &re) && re.ErrorCode() == RPCCodeUserRejected {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "user rejected") ||
		strings.Contains(msg, "user denied") ||
		strings.Contains(msg, "rejected by user")
}

// RevertReason extracts the revert string from a failed call, if any.
func RevertReason(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var de rpc.DataError
	if errors.As(err, &de) {
		if reason, ok := unpackRevertData(de.ErrorData()); ok {
			return reason, true
		}
	}
	msg := err.Error()
	if strings.Contains(msg, "JSON-RPC error") || strings.Contains(msg, "execution reverted") {
		if m := revertReason.FindStringSubmatch(msg); len(m) == 2 {
			if reason := strings.TrimSpace(m[1]); reason != "" {
				return reason, true
			}
		}
	}
	return "", false
}

func unpackRevertData(data interface{}) (string, bool) {
	var raw []byte
	switch v := data.(type) {
	case string:
		b, err := hexutil.Decode(v)
		if err != nil {
			return "", false
		}
		raw = b
	case []byte:
		raw = v
	default:
		return "", false
	}
	reason, err := abi.UnpackRevert(raw)
	if err != nil || reason == "" {
		return "", false
	}
	return reason, true
}

// UserMessage returns a short description of err for display. Hex payloads,
// undefined/null fragments and near-empty strings are never returned.
func UserMessage(err error, fallback string) string {
	if fallback == "" {
		fallback = DefaultFallback
	}
	if err == nil {
		return fallback
	}
	if reason, ok := RevertReason(err); ok {
		return reason
	}

	msg := prefixColon.ReplaceAllString(rawMessage(err), "")
	msg = prefixSpace.ReplaceAllString(msg, "")
	msg = strings.TrimSpace(msg)
	if presentable(msg) {
		return msg
	}

	if m, ok := codeMessage(err); ok {
		return m
	}
	return fallback
}

func rawMessage(err error) string {
	if ce, ok := err.(*Error); ok && ce.Message == "" && ce.Err == nil {
		return ""
	}
	return err.Error()
}

func presentable(msg string) bool {
	return len(msg) >= 3 &&
		!strings.Contains(msg, "undefined") &&
		!strings.Contains(msg, "null") &&
		!strings.Contains(msg, "0x")
}

func codeMessage(err error) (string, bool) {
	if IsUserRejection(err) {
		return "Transaction was rejected by user", true
	}
	var ce *Error
	if errors.As(err, &ce) {
		switch ce.Code {
		case CodeInsufficientFunds:
			return "Insufficient funds to complete transaction", true
		case CodeNetworkError:
			return "Network error. Please check your connection", true
		case CodeTimeout:
			return "Transaction timed out. Please try again", true
		case CodeUnsupportedOperation:
			return "This operation is not supported", true
		}
	}
	var re rpc.Error
	if errors.As(err, &re) && re.ErrorCode() == RPCCodeInternal {
		return "Internal error. Please try again", true
	}
	return "", false
}
