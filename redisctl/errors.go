package redisctl

import "github.com/joomcode/errorx"

var (
	// Errors is the namespace for control-connection failures.
	Errors = errorx.NewNamespace("redisctl")

	// ErrDial - connection could not be established.
	ErrDial = Errors.NewType("dial")
	// ErrAuth - AUTH was rejected during connection setup.
	ErrAuth = Errors.NewType("auth")
	// ErrIO - read or write failed, or timed out. The connection is closed.
	ErrIO = Errors.NewType("io")
	// ErrClosed - command issued on a closed connection.
	ErrClosed = Errors.NewType("closed")
	// ErrResponse - the reply is not valid RESP.
	ErrResponse = Errors.NewType("bad_response")
	// ErrResult - the server replied with an error.
	ErrResult = Errors.NewType("result")
)
