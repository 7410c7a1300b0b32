package protocol

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformed marks a line that was read completely but is not a valid message.
var ErrMalformed = errors.New("malformed message")

// ReadRequest reads a single JSON request from the given reader.
// The JSON must be terminated by a newline. The same reader must be reused
// for every request on a connection.
func ReadRequest(r *bufio.Reader) (*Request, error) {
	line, err := r.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return &req, nil
}

// WriteRequest encodes and writes a Request to the given writer.
func WriteRequest(w io.Writer, req *Request) error {
	bytes, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode error: %w", err)
	}
	bytes = append(bytes, '\n')
	_, err = w.Write(bytes)
	return err
}

// ReadResponse reads a single JSON response from the reader.
func ReadResponse(r *bufio.Reader) (*Response, error) {
	line, err := r.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return &resp, nil
}

// WriteResponse encodes and writes a Response to the writer.
func WriteResponse(w io.Writer, resp *Response) error {
	bytes, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode error: %w", err)
	}
	bytes = append(bytes, '\n')
	_, err = w.Write(bytes)
	return err
}

// DecodePayload converts a loosely typed payload (as produced by decoding into
// interface{}) into the target struct.
func DecodePayload(input interface{}, out interface{}) error {
	data, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
