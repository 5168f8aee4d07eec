// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the gateway and its clients.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"syscall"
)

// MaxBodyBytes caps how much of a response body is read. Extraction results
// are small JSON documents; anything larger is treated as malformed.
const MaxBodyBytes = 8 << 20

// ErrBodyTooLarge is returned by ReadBody when the body exceeds the limit.
var ErrBodyTooLarge = errors.New("response body exceeds limit")

// IsTimeout reports whether err was caused by a deadline elapsing, either the
// caller's context deadline or a net.Error reporting Timeout().
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsConnectionFailure reports whether err is a transport-level failure to
// reach the peer: connection refused or reset, DNS resolution failure, an
// unroutable address, or a peer that hung up. It is keyed to
// failure signatures, never to elapsed time, so a timeout is not a connection
// failure even when it happens during dial.
func IsConnectionFailure(err error) bool {
	if err == nil || IsTimeout(err) {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	for _, errno := range []syscall.Errno{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.EHOSTUNREACH,
		syscall.ENETUNREACH,
		syscall.ECONNABORTED,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}

	// A peer that hung up before responding surfaces as a *url.Error
	// wrapping a bare EOF.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return errors.Is(urlErr.Err, io.EOF) || errors.Is(urlErr.Err, io.ErrUnexpectedEOF)
	}
	return false
}

// ReadBody reads at most MaxBodyBytes from r.
func ReadBody(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if len(data) > MaxBodyBytes {
		return nil, ErrBodyTooLarge
	}
	return data, nil
}
