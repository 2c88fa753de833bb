// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package requester

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/gorilla/rpc/v2"
	"github.com/stretchr/testify/require"
)

var errOdd = errors.New("odd")

type echoService struct{}

type EchoArgs struct {
	Value int `json:"value"`
}

type EchoReply struct {
	Value int `json:"value"`
}

func (*echoService) Double(_ *http.Request, args *EchoArgs, reply *EchoReply) error {
	if args.Value%2 != 0 {
		return errOdd
	}
	reply.Value = 2 * args.Value
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	s := rpc.NewServer()
	s.RegisterCodec(json.NewCodec(), "application/json")
	require.NoError(t, s.RegisterService(&echoService{}, "echo"))
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return ts
}

func TestSendRequest(t *testing.T) {
	require := require.New(t)

	ts := newTestServer(t)
	r := New(ts.URL, "echo")

	reply := new(EchoReply)
	require.NoError(r.SendRequest(context.Background(), "double", &EchoArgs{Value: 4}, reply))
	require.Equal(8, reply.Value)

	err := r.SendRequest(context.Background(), "double", &EchoArgs{Value: 3}, reply)
	require.ErrorContains(err, errOdd.Error())
}

func TestSendRequestBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(ts.Close)

	err := New(ts.URL, "echo").SendRequest(context.Background(), "double", &EchoArgs{}, new(EchoReply))
	require.ErrorContains(t, err, "received status code: 404")
}
