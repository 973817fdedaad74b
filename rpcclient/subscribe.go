package rpcclient

import (
	"context"
	"fmt"
	"io"

	"github.com/kasparovwallet/kasparov/utxoset"
	"google.golang.org/grpc"
)

// streamNotifications opens a server-streaming call against method, sends
// req as the single client message (nil for subscriptions that take no
// arguments), decodes each response into a fresh T via the registered JSON
// codec, and invokes cb for every one until the stream ends or ctx is
// canceled. It returns a SubPromise resolved on either the stream's
// successful open or an error, so callers get the ack-then-cancel-by-uid
// contract spec.md §6 describes.
func streamNotifications[T any](ctx context.Context, conn *grpc.ClientConn, method string, req interface{}, cb func(T)) (*SubPromise, func(), error) {
	streamCtx, cancel := context.WithCancel(ctx)

	desc := &grpc.StreamDesc{ServerStreams: true}
	stream, err := conn.NewStream(streamCtx, desc, method, grpc.CallContentSubtype(jsonCodecName))
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("rpcclient: open stream %s: %w", method, err)
	}

	if req != nil {
		if err := stream.SendMsg(req); err != nil {
			cancel()
			return nil, nil, fmt.Errorf("rpcclient: send subscribe request %s: %w", method, err)
		}
	}
	if err := stream.CloseSend(); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("rpcclient: close send %s: %w", method, err)
	}

	uid := newUID()
	promise := newSubPromise(uid)

	go func() {
		promise.resolve(nil)
		for {
			var msg T
			if err := stream.RecvMsg(&msg); err != nil {
				if err != io.EOF {
					rpcLog.Warnf("stream %s closed: %v", method, err)
				}
				return
			}
			cb(msg)
		}
	}()

	return promise, cancel, nil
}

// SubscribeBlockAdded implements RpcClient.
func (c *Client) SubscribeBlockAdded(cb func(BlockAddedNotification)) (*SubPromise, error) {
	conn, err := c.activeConn()
	if err != nil {
		return nil, err
	}

	promise, cancel, err := streamNotifications[BlockAddedNotification](context.Background(), conn, methodSubscribeBlockAdded, nil, cb)
	if err != nil {
		return nil, err
	}
	c.registerSub(promise.UID, cancel)
	return promise, nil
}

// SubscribeVirtualSelectedParentBlueScoreChanged implements RpcClient.
func (c *Client) SubscribeVirtualSelectedParentBlueScoreChanged(cb func(BlueScoreChangedNotification)) (*SubPromise, error) {
	conn, err := c.activeConn()
	if err != nil {
		return nil, err
	}

	promise, cancel, err := streamNotifications[BlueScoreChangedNotification](context.Background(), conn, methodSubscribeVirtualSelectedParentBlueScoreChanged, nil, cb)
	if err != nil {
		return nil, err
	}
	c.registerSub(promise.UID, cancel)
	return promise, nil
}

// SubscribeChainChanged implements RpcClient.
func (c *Client) SubscribeChainChanged(cb func(ChainChangedNotification)) (*SubPromise, error) {
	conn, err := c.activeConn()
	if err != nil {
		return nil, err
	}

	promise, cancel, err := streamNotifications[ChainChangedNotification](context.Background(), conn, methodSubscribeChainChanged, nil, cb)
	if err != nil {
		return nil, err
	}
	c.registerSub(promise.UID, cancel)
	return promise, nil
}

// utxosChangedWire is the wire shape of one UtxosChanged notification,
// translated into utxoset.ChangeNotification for consumption by the utxoset
// package without it needing to know about the RPC wire format.
type utxosChangedWire struct {
	Added   []*utxoset.Utxo     `json:"added"`
	Removed []utxoset.Outpoint `json:"removed"`
}

// SubscribeUtxosChanged implements utxoset.Subscriber. Unlike the
// callback-based subscriptions above, this returns a channel directly: it
// is consumed exclusively by utxoset.Set.Subscribe, which owns the
// add-then-remove ordering guarantee of spec.md §5, so there is no value in
// routing it through a second callback indirection here.
func (c *Client) SubscribeUtxosChanged(ctx context.Context, addresses []string) (<-chan utxoset.ChangeNotification, func(), error) {
	conn, err := c.activeConn()
	if err != nil {
		return nil, nil, err
	}

	out := make(chan utxoset.ChangeNotification)
	req := struct {
		Addresses []string `json:"addresses"`
	}{Addresses: addresses}
	promise, cancel, err := streamNotifications[utxosChangedWire](ctx, conn, methodSubscribeUtxosChanged, req, func(w utxosChangedWire) {
		out <- utxoset.ChangeNotification{Added: w.Added, Removed: w.Removed}
	})
	if err != nil {
		return nil, nil, err
	}
	c.registerSub(promise.UID, cancel)

	unsubscribe := func() {
		_ = c.unsubscribe(promise.UID)
		close(out)
	}
	return out, unsubscribe, nil
}
