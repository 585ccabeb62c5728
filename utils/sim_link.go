//go:build linux || darwin
// +build linux darwin

package utils

import (
	"context"
	"fmt"
	"net"

	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"
)

// FrameSender transmits frames toward the simulator bridge.
type FrameSender interface {
	Send(ctx context.Context, frame can.Frame) error
	Close() error
}

// FrameReceiver reads frames arriving from the simulator bridge.
type FrameReceiver interface {
	Receive(ctx context.Context) (can.Frame, error)
	Close() error
}

// SimLink is the bidirectional SocketCAN connection to the simulator
// bridge: actuator commands out, vehicle feedback in.
type SimLink struct {
	txConn net.Conn
	rxConn net.Conn
	tx     *socketcan.Transmitter
	rx     *socketcan.Receiver
}

// DialSimLink opens both directions on the given interface (e.g. "vcan0").
func DialSimLink(ctx context.Context, iface string) (*SimLink, error) {
	txConn, err := socketcan.DialContext(ctx, "can", iface)
	if err != nil {
		return nil, fmt.Errorf("socketcan dial (tx): %w", err)
	}
	rxConn, err := socketcan.DialContext(ctx, "can", iface)
	if err != nil {
		_ = txConn.Close()
		return nil, fmt.Errorf("socketcan dial (rx): %w", err)
	}
	return &SimLink{
		txConn: txConn,
		rxConn: rxConn,
		tx:     socketcan.NewTransmitter(txConn),
		rx:     socketcan.NewReceiver(rxConn),
	}, nil
}

// Send transmits a single frame.
func (l *SimLink) Send(ctx context.Context, frame can.Frame) error {
	return l.tx.TransmitFrame(ctx, frame)
}

// Receive blocks until the next frame or context cancellation.
func (l *SimLink) Receive(ctx context.Context) (can.Frame, error) {
	frameChan := make(chan can.Frame, 1)
	errChan := make(chan error, 1)

	go func() {
		if l.rx.Receive() {
			frameChan <- l.rx.Frame()
		} else {
			errChan <- fmt.Errorf("receive failed")
		}
	}()

	select {
	case <-ctx.Done():
		return can.Frame{}, ctx.Err()
	case frame := <-frameChan:
		return frame, nil
	case err := <-errChan:
		return can.Frame{}, err
	}
}

// Close closes both directions of the link.
func (l *SimLink) Close() error {
	var firstErr error
	if l.rxConn != nil {
		firstErr = l.rxConn.Close()
	}
	if l.txConn != nil {
		if err := l.txConn.Close(); firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
