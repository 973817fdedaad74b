package rpcclient

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/decred/dcrd/connmgr"
	"github.com/kasparovwallet/kasparov/txbuilder"
	"github.com/kasparovwallet/kasparov/utxoset"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// Full RPC method paths. The node speaks JSON-over-gRPC rather than a
// compiled .proto service (see codec.go); the paths below are this
// wallet's one fixed contract with that server, invoked directly through
// grpc.ClientConn.Invoke/NewStream instead of generated stubs.
const (
	methodGetBlock                                 = "/kaspad.RPC/GetBlock"
	methodGetUtxosByAddresses                      = "/kaspad.RPC/GetUtxosByAddresses"
	methodSubmitTransaction                        = "/kaspad.RPC/SubmitTransaction"
	methodGetVirtualSelectedParentBlueScore        = "/kaspad.RPC/GetVirtualSelectedParentBlueScore"
	methodSubscribeBlockAdded                      = "/kaspad.RPC/SubscribeBlockAdded"
	methodSubscribeVirtualSelectedParentBlueScoreChanged = "/kaspad.RPC/SubscribeVirtualSelectedParentBlueScoreChanged"
	methodSubscribeUtxosChanged                    = "/kaspad.RPC/SubscribeUtxosChanged"
	methodSubscribeChainChanged                    = "/kaspad.RPC/SubscribeChainChanged"
)

// Client is the concrete RpcClient of spec.md §6: a gRPC connection to a
// kaspad-compatible node. Reachability is supervised by
// github.com/decred/dcrd/connmgr's reconnect manager (the same dependency
// the teacher registers a sub-logger for in log.go) using a plain TCP probe
// against the node's address; the actual gRPC dial/redial rides on top of
// that probe's connect/disconnect callbacks, rate-limited via
// golang.org/x/time/rate so a flapping node can't trigger a dial storm on
// either layer.
type Client struct {
	addr   string
	creds  credentials.TransportCredentials
	perRPC credentials.PerRPCCredentials

	connMgr     *connmgr.ConnManager
	dialLimiter *rate.Limiter

	mu        sync.Mutex
	conn      *grpc.ClientConn
	connected bool

	onConnectCbs    []func()
	onDisconnectCbs []func()

	subs map[string]func()
}

// Config bundles Client's construction-time dependencies.
type Config struct {
	// Addr is the node's gRPC dial target, host:port.
	Addr string
	// Insecure skips TLS (simnet/devnet loopback use).
	Insecure bool
	// PerRPC optionally attaches macaroon (or other) credentials to every
	// call, via NewMacaroonCredential/LoadMacaroonFile.
	PerRPC credentials.PerRPCCredentials
	// ReconnectInterval bounds how often connmgr retries a failed probe.
	ReconnectInterval time.Duration
}

// New constructs a Client that has not yet dialed; call Connect to do so.
func New(cfg Config) (*Client, error) {
	interval := cfg.ReconnectInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	c := &Client{
		addr:        cfg.Addr,
		perRPC:      cfg.PerRPC,
		dialLimiter: rate.NewLimiter(rate.Every(interval), 1),
		subs:        make(map[string]func()),
	}
	if cfg.Insecure {
		c.creds = insecure.NewCredentials()
	} else {
		c.creds = credentials.NewClientTLSFromCert(nil, "")
	}

	cmCfg := &connmgr.Config{
		TargetOutbound: 1,
		RetryDuration:  interval,
		GetNewAddress: func() (net.Addr, error) {
			return net.ResolveTCPAddr("tcp", c.addr)
		},
		Dial: func(addr net.Addr) (net.Conn, error) {
			return net.DialTimeout(addr.Network(), addr.String(), interval)
		},
		OnConnection:    c.onConnmgrConnection,
		OnDisconnection: c.onConnmgrDisconnection,
	}
	cm, err := connmgr.New(cmCfg)
	if err != nil {
		return nil, fmt.Errorf("rpcclient: construct connection manager: %w", err)
	}
	c.connMgr = cm

	return c, nil
}

// onConnmgrConnection fires once connmgr's TCP probe succeeds: it performs
// the real gRPC dial (which keeps its own internal stream multiplexing) and
// only then fires the wallet-facing OnConnect callbacks.
func (c *Client) onConnmgrConnection(_ *connmgr.ConnReq, conn net.Conn) {
	_ = conn.Close() // the probe connection itself is not reused; gRPC dials its own.

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.dialGRPC(ctx); err != nil {
		rpcLog.Warnf("grpc dial to %s failed after reachability probe succeeded: %v", c.addr, err)
		return
	}

	c.mu.Lock()
	c.connected = true
	cbs := append([]func(){}, c.onConnectCbs...)
	c.mu.Unlock()

	for _, cb := range cbs {
		cb()
	}
}

func (c *Client) onConnmgrDisconnection(*connmgr.ConnReq) {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.connected = false
	cbs := append([]func(){}, c.onDisconnectCbs...)
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	for _, cb := range cbs {
		cb()
	}
}

// Connect starts the connmgr reconnect supervisor and blocks until either
// the first gRPC dial succeeds or ctx is canceled.
func (c *Client) Connect(ctx context.Context) error {
	c.connMgr.Start()
	c.connMgr.Connect(&connmgr.ConnReq{Permanent: true})

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		if c.isConnected() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) isConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Client) dialGRPC(ctx context.Context) error {
	creds := c.creds
	if creds == nil {
		creds = insecure.NewCredentials()
	}

	if err := c.dialLimiter.Wait(ctx); err != nil {
		return err
	}

	opts := append(dialOptions(c.perRPC), grpc.WithTransportCredentials(creds))
	conn, err := grpc.DialContext(ctx, c.addr, opts...)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	return nil
}

// Disconnect tears down the gRPC connection and the connmgr reconnect
// loop.
func (c *Client) Disconnect() error {
	c.connMgr.Stop()

	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.connected = false
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.Close()
}

// OnConnect registers cb to run every time the transport comes up.
func (c *Client) OnConnect(cb func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onConnectCbs = append(c.onConnectCbs, cb)
}

// OnDisconnect registers cb to run every time the transport goes down.
func (c *Client) OnDisconnect(cb func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDisconnectCbs = append(c.onDisconnectCbs, cb)
}

func (c *Client) activeConn() (*grpc.ClientConn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, fmt.Errorf("rpcclient: not connected")
	}
	return c.conn, nil
}

// GetBlock implements RpcClient.
func (c *Client) GetBlock(ctx context.Context, hash string) (*Block, error) {
	conn, err := c.activeConn()
	if err != nil {
		return nil, err
	}

	req := struct {
		Hash string `json:"hash"`
	}{Hash: hash}
	var resp Block
	if err := conn.Invoke(ctx, methodGetBlock, &req, &resp); err != nil {
		return nil, fmt.Errorf("rpcclient: GetBlock: %w", err)
	}
	resp.IsCoinbase = classifyCoinbase(resp.Transactions)
	return &resp, nil
}

// GetUtxosByAddresses implements RpcClient.
func (c *Client) GetUtxosByAddresses(ctx context.Context, addresses []string) (map[string][]*utxoset.Utxo, error) {
	conn, err := c.activeConn()
	if err != nil {
		return nil, err
	}

	req := struct {
		Addresses []string `json:"addresses"`
	}{Addresses: addresses}
	var resp map[string][]*utxoset.Utxo
	if err := conn.Invoke(ctx, methodGetUtxosByAddresses, &req, &resp); err != nil {
		return nil, fmt.Errorf("rpcclient: GetUtxosByAddresses: %w", err)
	}
	return resp, nil
}

// SubmitTransaction implements txbuilder.Submitter / RpcClient.
func (c *Client) SubmitTransaction(ctx context.Context, tx *txbuilder.WireTransaction) (string, error) {
	conn, err := c.activeConn()
	if err != nil {
		return "", err
	}

	req := struct {
		Transaction *txbuilder.WireTransaction `json:"transaction"`
	}{Transaction: tx}
	var resp struct {
		TxID string `json:"transactionId"`
	}
	if err := conn.Invoke(ctx, methodSubmitTransaction, &req, &resp); err != nil {
		return "", fmt.Errorf("rpcclient: SubmitTransaction: %w", err)
	}
	return resp.TxID, nil
}

// GetVirtualSelectedParentBlueScore implements RpcClient.
func (c *Client) GetVirtualSelectedParentBlueScore(ctx context.Context) (uint64, error) {
	conn, err := c.activeConn()
	if err != nil {
		return 0, err
	}

	var resp struct {
		BlueScore uint64 `json:"blueScore"`
	}
	if err := conn.Invoke(ctx, methodGetVirtualSelectedParentBlueScore, &struct{}{}, &resp); err != nil {
		return 0, fmt.Errorf("rpcclient: GetVirtualSelectedParentBlueScore: %w", err)
	}
	return resp.BlueScore, nil
}

func newUID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func (c *Client) registerSub(uid string, cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs[uid] = cancel
}

// UnSubscribe implements RpcClient for block-added/blue-score/chain-changed
// subscriptions.
func (c *Client) UnSubscribe(uid string) error {
	return c.unsubscribe(uid)
}

// UnSubscribeUtxosChanged implements RpcClient.
func (c *Client) UnSubscribeUtxosChanged(uid string) error {
	return c.unsubscribe(uid)
}

func (c *Client) unsubscribe(uid string) error {
	c.mu.Lock()
	cancel, ok := c.subs[uid]
	delete(c.subs, uid)
	c.mu.Unlock()

	if !ok {
		return fmt.Errorf("rpcclient: unknown subscription %q", uid)
	}
	cancel()
	return nil
}
