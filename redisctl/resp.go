package redisctl

import (
	"bufio"
	"io"
	"strconv"
)

// appendCommand encodes cmd and args as a RESP array of bulk strings.
func appendCommand(buf []byte, cmd string, args ...string) []byte {
	buf = append(buf, '*')
	buf = strconv.AppendInt(buf, int64(len(args)+1), 10)
	buf = append(buf, '\r', '\n')
	buf = appendBulk(buf, cmd)
	for _, arg := range args {
		buf = appendBulk(buf, arg)
	}
	return buf
}

func appendBulk(buf []byte, s string) []byte {
	buf = append(buf, '$')
	buf = strconv.AppendInt(buf, int64(len(s)), 10)
	buf = append(buf, '\r', '\n')
	buf = append(buf, s...)
	return append(buf, '\r', '\n')
}

// readResponse reads one RESP answer. Server-sent errors come back as
// ErrResult; transport and framing problems as ErrIO / ErrResponse.
// Simple strings decode to string, bulk strings to []byte, integers to
// int64, arrays to []interface{}, nils to nil.
func readResponse(r *bufio.Reader) (interface{}, error) {
	line, isPrefix, err := r.ReadLine()
	if err != nil {
		return nil, ErrIO.Wrap(err, "read failed")
	}
	if isPrefix {
		return nil, ErrResponse.New("header line too large")
	}
	if len(line) == 0 {
		return nil, ErrResponse.New("header line is empty")
	}

	switch line[0] {
	case '+':
		return string(line[1:]), nil
	case '-':
		return nil, ErrResult.New("%s", string(line[1:]))
	case ':':
		v, err := parseInt(line[1:])
		if err != nil {
			return nil, err
		}
		return v, nil
	case '$':
		n, err := parseInt(line[1:])
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, nil
		}
		buf := make([]byte, n+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, ErrIO.Wrap(err, "read failed")
		}
		if buf[n] != '\r' || buf[n+1] != '\n' {
			return nil, ErrResponse.New("bulk string not terminated with CRLF")
		}
		return buf[:n], nil
	case '*':
		n, err := parseInt(line[1:])
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, nil
		}
		res := make([]interface{}, n)
		for i := range res {
			if res[i], err = readResponse(r); err != nil {
				return nil, err
			}
		}
		return res, nil
	default:
		return nil, ErrResponse.New("unknown header type %q", line[0])
	}
}

func parseInt(b []byte) (int64, error) {
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, ErrResponse.New("integer is not an integer: %q", b)
	}
	return v, nil
}
