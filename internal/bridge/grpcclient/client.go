// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package grpcclient provides a gRPC-backed implementation of the Bridge interface.
// It implements the drift bridge using a bidirectional gRPC stream for
// communication with the backend service. The client handles snapshot upload,
// detail requests and scan events, providing real-time progress updates while
// a schema comparison runs.
//
// The backend speaks loosely-typed Struct messages on the stream, so the
// client converts between the internal model types and google.protobuf.Struct
// payloads.
package grpcclient

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"io"
	"net"
	"time"

	"driftwatch/cli/internal/bridge/model"
	"driftwatch/cli/internal/drift"
	apperrors "driftwatch/cli/internal/errors"
	"driftwatch/cli/internal/schema"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client implements bridge.Bridge using the DriftBridge.watch_session bidi stream.
type Client struct {
	conn   *grpc.ClientConn
	stream grpc.BidiStreamingClient[structpb.Struct, structpb.Struct]

	events chan drift.Event
	tasks  chan model.DetailTask

	// In-memory token storage with TTL
	accessToken string
	tokenExpiry time.Time
}

// Connect dials the gRPC server and opens the watch_session stream.
// The access token is stored in-memory with a 20-minute TTL and sent with each gRPC request.
func (c *Client) Connect(ctx context.Context, addr string, accessToken string) error {
	c.accessToken = accessToken
	c.tokenExpiry = time.Now().Add(20 * time.Minute)

	// Derive SNI and ensure default port if missing
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}
	target := addr
	if _, _, err := net.SplitHostPort(addr); err != nil {
		target = net.JoinHostPort(addr, "443")
	}

	tlsCfg := &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	creds := credentials.NewTLS(tlsCfg)
	dctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	c.conn, err = grpc.DialContext(dctx, target, grpc.WithTransportCredentials(creds), grpc.WithBlock())
	if err != nil {
		return apperrors.Wrap(apperrors.BridgeFailed, "failed to dial bridge", err)
	}

	// Attach authorization metadata to context
	md := metadata.Pairs("authorization", "Bearer "+accessToken)
	ctx = metadata.NewOutgoingContext(ctx, md)

	// The Python backend registers snake_case method names, so the literal
	// proto name is used instead of generated stubs.
	cs, sErr := c.conn.NewStream(ctx, &grpc.StreamDesc{ServerStreams: true, ClientStreams: true}, "/driftwatch.DriftBridge/watch_session")
	if sErr != nil {
		return apperrors.Wrap(apperrors.BridgeFailed, "failed to open watch_session stream", sErr)
	}
	c.stream = &grpc.GenericClientStream[structpb.Struct, structpb.Struct]{ClientStream: cs}
	c.events = make(chan drift.Event, 64)
	c.tasks = make(chan model.DetailTask, 64)
	go func() { <-ctx.Done(); _ = c.Close(context.Background()) }()
	return nil
}

// Init sends initial session parameters and starts receiving.
func (c *Client) Init(ctx context.Context, sessionID string, dbName string) error {
	if c.stream == nil {
		return errors.New("stream not initialized")
	}
	if !c.isTokenValid() {
		return errors.New("access token expired or invalid")
	}
	if dbName == "" {
		return errors.New("dbName is required (cannot be empty)")
	}
	msg, err := structpb.NewStruct(map[string]any{
		"kind":       "init",
		"session_id": sessionID,
		"db_name":    dbName,
	})
	if err != nil {
		return err
	}
	if err := c.stream.Send(msg); err != nil {
		return err
	}
	go c.receiveLoop()
	return nil
}

// SendSnapshot uploads a schema snapshot with its fingerprint.
func (c *Client) SendSnapshot(ctx context.Context, snap *schema.Snapshot) error {
	if c.stream == nil {
		return errors.New("stream not initialized")
	}
	if !c.isTokenValid() {
		return errors.New("access token expired or invalid")
	}
	if snap == nil {
		return errors.New("snapshot is required")
	}

	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	msg, err := structpb.NewStruct(map[string]any{
		"kind":          "snapshot",
		"fingerprint":   snap.Fingerprint(),
		"snapshot_json": string(b),
	})
	if err != nil {
		return err
	}
	return c.stream.Send(msg)
}

func (c *Client) Close(ctx context.Context) error {
	// Clear access token from memory
	c.accessToken = ""
	c.tokenExpiry = time.Time{}

	if c.stream != nil {
		_ = c.stream.CloseSend()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) Events() <-chan drift.Event     { return c.events }
func (c *Client) Tasks() <-chan model.DetailTask { return c.tasks }

// isTokenValid checks if the access token is still valid (not expired)
func (c *Client) isTokenValid() bool {
	return c.accessToken != "" && time.Now().Before(c.tokenExpiry)
}

// SendDetailResponse sends a detail result to the server.
func (c *Client) SendDetailResponse(ctx context.Context, resp model.DetailResponse) error {
	if c.stream == nil {
		return errors.New("stream not initialized")
	}
	if !c.isTokenValid() {
		return errors.New("access token expired or invalid")
	}

	msg, err := structpb.NewStruct(map[string]any{
		"kind":        "detail_response",
		"request_id":  resp.RequestID,
		"success":     resp.Success,
		"result_json": resp.ResultJSON,
	})
	if err != nil {
		return err
	}
	return c.stream.Send(msg)
}

func (c *Client) receiveLoop() {
	defer close(c.events)
	defer close(c.tasks)
	for {
		msg, err := c.stream.Recv()
		if err != nil {
			// Differentiate normal close vs error; avoid printing raw EOF as info in UI
			if errors.Is(err, io.EOF) {
				c.events <- drift.Event{Type: drift.EventType("stream_closed"), Message: "stream closed"}
			} else {
				if st, ok := status.FromError(err); ok {
					c.events <- drift.Event{Type: drift.EventType("stream_error"), Message: st.Code().String() + ": " + st.Message()}
				} else {
					c.events <- drift.Event{Type: drift.EventType("stream_error"), Message: err.Error()}
				}
			}
			return
		}

		fields := msg.GetFields()
		switch fields["kind"].GetStringValue() {
		case "detail_request":
			c.tasks <- model.DetailTask{
				RequestID: fields["request_id"].GetStringValue(),
				SessionID: fields["session_id"].GetStringValue(),
				Object:    fields["object"].GetStringValue(),
				Aspect:    fields["aspect"].GetStringValue(),
			}
		case "ui_event":
			c.events <- drift.Event{
				Type:    drift.EventType(fields["event_type"].GetStringValue()),
				Message: fields["payload_json"].GetStringValue(),
			}
		}
	}
}
