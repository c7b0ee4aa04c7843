package device

import (
	"bufio"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeController answers each received line with respond(line).
func fakeController(t *testing.T, respond func(line string) (reply string, hangUp bool)) (*LineChannel, chan string) {
	t.Helper()

	host, board := net.Pipe()
	received := make(chan string, 16)

	go func() {
		defer board.Close()
		scanner := bufio.NewScanner(board)
		for scanner.Scan() {
			line := scanner.Text()
			received <- line
			reply, hangUp := respond(line)
			if reply != "" {
				if _, err := board.Write([]byte(reply)); err != nil {
					return
				}
			}
			if hangUp {
				return
			}
		}
	}()

	lc := NewLineChannel(host, 200*time.Millisecond, nil)
	t.Cleanup(func() { lc.Close() })
	return lc, received
}

func TestSendOK(t *testing.T) {
	lc, received := fakeController(t, func(string) (string, bool) {
		return "moving\r\nposition 140\r\nOK\r\n", false
	})

	require.NoError(t, lc.Send(context.Background(), "  motor 140 \n"))
	assert.Equal(t, "motor 140", <-received)

	require.NoError(t, lc.Send(context.Background(), "motor 0"))
	assert.Equal(t, "motor 0", <-received)
}

func TestSendRejected(t *testing.T) {
	lc, _ := fakeController(t, func(string) (string, bool) {
		return "ERR unknown command\n", false
	})

	err := lc.Send(context.Background(), "spin")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeviceRejected)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "spin", cmdErr.Command)
	assert.Equal(t, "ERR unknown command", cmdErr.Response)
}

func TestSendTimeout(t *testing.T) {
	lc, _ := fakeController(t, func(string) (string, bool) {
		return "", false
	})

	start := time.Now()
	err := lc.Send(context.Background(), "motor 10")
	assert.ErrorIs(t, err, ErrCommandTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSendCancelled(t *testing.T) {
	lc, _ := fakeController(t, func(string) (string, bool) {
		return "", false
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := lc.Send(ctx, "motor 10")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrCommandTimeout)
}

func TestSendChannelClosed(t *testing.T) {
	lc, _ := fakeController(t, func(string) (string, bool) {
		return "", true
	})

	err := lc.Send(context.Background(), "motor 10")
	assert.ErrorIs(t, err, ErrChannelClosed)
}

func TestSendEmptyCommand(t *testing.T) {
	lc, _ := fakeController(t, func(string) (string, bool) {
		return "OK\n", false
	})
	assert.Error(t, lc.Send(context.Background(), "   "))
}

func TestCloseTwice(t *testing.T) {
	host, board := net.Pipe()
	defer board.Close()

	lc := NewLineChannel(host, 0, nil)
	assert.NoError(t, lc.Close())
	assert.NoError(t, lc.Close())
}
