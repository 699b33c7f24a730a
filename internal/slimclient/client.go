// Package slimclient implements the Slim protocol state machine: spawn the
// SUT subprocess, poll-connect over TCP, validate the version banner, and
// exchange framed instruction/result batches.
package slimclient

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/temoc-ci/temoc/internal/compile"
	"github.com/temoc-ci/temoc/internal/slimcodec"
)

const (
	bannerLen       = 13 // len("Slim -- V0.5\n")
	bannerPrefix    = "Slim -- V0."
	minMinorVersion = 5
	connectBackoff  = 100 * time.Millisecond
	killGrace       = 2 * time.Second
)

// Config configures one SUT session.
type Config struct {
	// Command is the shell command used to launch the SUT, with "%p"
	// replaced by Port before the command is run.
	Command string
	Port    int

	// ConnectTimeout bounds the total time spent poll-connecting before
	// the session fails with SpawnTimeout.
	ConnectTimeout time.Duration

	// PipeOutput forwards the subprocess's stdout/stderr to this
	// process's own, instead of discarding it.
	PipeOutput bool

	Log zerolog.Logger
}

// Client is one live Slim session: a spawned subprocess and its open TCP
// connection.
type Client struct {
	cfg  Config
	cmd  *exec.Cmd
	conn net.Conn
	rw   *bufio.ReadWriter
}

// Spawn launches the SUT and performs the full handshake: substitute %p,
// start the subprocess, poll-connect with backoff up to ConnectTimeout,
// and validate the version banner.
func Spawn(ctx context.Context, cfg Config) (*Client, error) {
	command := substitutePort(cfg.Command, cfg.Port)

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	if cfg.PipeOutput {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Command: command, Err: err}
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	conn, err := pollConnect(ctx, addr, cfg.ConnectTimeout)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, err
	}

	c := &Client{
		cfg:  cfg,
		cmd:  cmd,
		conn: conn,
		rw:   bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn)),
	}

	if err := c.readBanner(); err != nil {
		c.Kill()
		return nil, err
	}

	return c, nil
}

// substitutePort replaces every "%p" token in command with port.
func substitutePort(command string, port int) string {
	return strings.ReplaceAll(command, "%p", strconv.Itoa(port))
}

// pollConnect retries a TCP dial with a fixed backoff until it succeeds or
// timeout elapses.
func pollConnect(ctx context.Context, addr string, timeout time.Duration) (net.Conn, error) {
	deadline := time.Now().Add(timeout)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		conn, err := net.DialTimeout("tcp", addr, connectBackoff)
		if err == nil {
			return conn, nil
		}
		if time.Now().After(deadline) {
			return nil, &SpawnTimeout{Addr: addr, Timeout: timeout.String()}
		}
		time.Sleep(connectBackoff)
	}
}

// readBanner reads the first bannerLen bytes and validates them against
// the literal "Slim -- V0.5\n" or a newer, numerically greater minor
// version of the same major. The fixed-length read fits single-digit
// minor versions only.
func (c *Client) readBanner() error {
	buf := make([]byte, bannerLen)
	if _, err := readFull(c.rw, buf); err != nil {
		return &HandshakeError{Got: err.Error()}
	}
	got := string(buf)
	if !strings.HasPrefix(got, bannerPrefix) || !strings.HasSuffix(got, "\n") {
		return &HandshakeError{Got: got}
	}
	minorStr := strings.TrimSuffix(strings.TrimPrefix(got, bannerPrefix), "\n")
	minor, err := strconv.Atoi(minorStr)
	if err != nil || minor < minMinorVersion {
		return &HandshakeError{Got: got}
	}
	return nil
}

func readFull(r *bufio.ReadWriter, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// SendBatch sends one instruction batch as a single Slim frame and returns
// the decoded per-ID results, validating cardinality and ID correlation
// against what was sent.
func (c *Client) SendBatch(instructions []compile.Instruction) (map[string]Result, error) {
	items := make([]slimcodec.Value, len(instructions))
	wantIDs := make(map[string]bool, len(instructions))
	for i, in := range instructions {
		items[i] = in.ToValue()
		wantIDs[in.ID] = true
	}
	frame := slimcodec.Encode(slimcodec.List(items...))
	if _, err := c.rw.Write(frame); err != nil {
		return nil, fmt.Errorf("writing instruction batch: %w", err)
	}
	if err := c.rw.Flush(); err != nil {
		return nil, fmt.Errorf("flushing instruction batch: %w", err)
	}

	resp, err := c.readFrame()
	if err != nil {
		return nil, fmt.Errorf("reading result batch: %w", err)
	}

	results := make(map[string]Result, resp.Len())
	for i := 0; i < resp.Len(); i++ {
		pair := resp.At(i)
		if pair.Len() != 2 {
			return nil, &ProtocolError{Msg: fmt.Sprintf("result pair %d has %d elements, want 2", i, pair.Len())}
		}
		id := pair.At(0).String()
		results[id] = ParseResult(pair.At(1).String())
	}

	if len(results) != len(wantIDs) {
		return nil, &ProtocolError{Msg: fmt.Sprintf("sent %d instructions, received %d results", len(wantIDs), len(results))}
	}
	for id := range wantIDs {
		if _, ok := results[id]; !ok {
			return nil, &ProtocolError{Msg: fmt.Sprintf("no result received for instruction %s", id)}
		}
	}

	return results, nil
}

// readFrame reads one length-prefixed Slim frame off the connection.
func (c *Client) readFrame() (slimcodec.Value, error) {
	header := make([]byte, 7) // 6-digit length + ':'
	if _, err := readFull(c.rw, header); err != nil {
		return slimcodec.Value{}, err
	}
	n, err := strconv.Atoi(string(header[:6]))
	if err != nil {
		return slimcodec.Value{}, &ProtocolError{Msg: "malformed frame length header"}
	}
	body := make([]byte, n)
	if _, err := readFull(c.rw, body); err != nil {
		return slimcodec.Value{}, err
	}
	full := append(header, body...)
	return slimcodec.Decode(full)
}

// Bye sends the terminal "bye" instruction, closes the socket, and waits
// for the subprocess to exit, force-killing it after killGrace.
func (c *Client) Bye() error {
	frame := slimcodec.Encode(slimcodec.List(slimcodec.Atom("bye")))
	_, writeErr := c.rw.Write(frame)
	if writeErr == nil {
		writeErr = c.rw.Flush()
	}
	_ = c.conn.Close()

	done := make(chan error, 1)
	go func() { done <- c.cmd.Wait() }()

	select {
	case <-done:
	case <-time.After(killGrace):
		_ = c.cmd.Process.Kill()
		<-done
	}

	return writeErr
}

// Kill closes the connection and force-terminates the subprocess
// immediately, for use on session-fault and cancellation paths where a
// graceful bye is not attempted.
func (c *Client) Kill() {
	if c.conn != nil {
		_ = c.conn.Close()
	}
	if c.cmd != nil && c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
		_ = c.cmd.Wait()
	}
}
