package regtest

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/rpcclient"

	"github.com/zkbridgelab/bitgroth/logger"
)

// Supervisor owns the lifecycle of the local network. It tracks what it
// has started itself, so starts are idempotent without scanning the host
// for processes: a container started by someone else is not ours and is
// never reused or killed.
type Supervisor struct {
	cfg Config

	mu              sync.Mutex
	nodeStarted     bool
	explorerStarted bool
	minerStop       chan struct{}
	minerDone       chan struct{}
	client          *rpcclient.Client
}

// NewSupervisor returns a supervisor for the given network configuration.
// Nothing is started yet.
func NewSupervisor(cfg Config) *Supervisor {
	return &Supervisor{cfg: cfg}
}

// StartNode launches the bitcoind regtest container. Calling it again on
// the same supervisor is a no-op.
func (s *Supervisor) StartNode(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nodeStarted {
		return nil
	}
	log := logger.Logger()
	args := []string{
		"run", "-d", "--rm",
		"--name", s.cfg.NodeContainer,
		"-p", "18443:18443",
		s.cfg.NodeImage,
		"-regtest=1",
		"-rpcbind=0.0.0.0",
		"-rpcallowip=0.0.0.0/0",
		fmt.Sprintf("-rpcuser=%s", s.cfg.RPCUser),
		fmt.Sprintf("-rpcpassword=%s", s.cfg.RPCPass),
		"-fallbackfee=0.0002",
	}
	out, err := exec.CommandContext(ctx, "docker", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("error starting node container: %s: %v", out, err)
	}
	log.Info().Str("container", s.cfg.NodeContainer).Msg("node container started")
	s.nodeStarted = true
	return nil
}

// StartExplorer launches the block explorer container pointed at the node.
// Calling it again on the same supervisor is a no-op.
func (s *Supervisor) StartExplorer(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.explorerStarted {
		return nil
	}
	log := logger.Logger()
	args := []string{
		"run", "-d", "--rm",
		"--name", s.cfg.ExplorerContainer,
		"-p", "3002:3002",
		"-e", fmt.Sprintf("BTCEXP_BITCOIND_HOST=%s", s.cfg.NodeContainer),
		"-e", fmt.Sprintf("BTCEXP_BITCOIND_USER=%s", s.cfg.RPCUser),
		"-e", fmt.Sprintf("BTCEXP_BITCOIND_PASS=%s", s.cfg.RPCPass),
		s.cfg.ExplorerImage,
	}
	out, err := exec.CommandContext(ctx, "docker", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("error starting explorer container: %s: %v", out, err)
	}
	log.Info().Str("container", s.cfg.ExplorerContainer).Msg("explorer container started")
	s.explorerStarted = true
	return nil
}

// Client returns an RPC client for the node, connecting on first use.
func (s *Supervisor) Client() (*rpcclient.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}
	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         s.cfg.RPCHost,
		User:         s.cfg.RPCUser,
		Pass:         s.cfg.RPCPass,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating rpc client: %v", err)
	}
	s.client = client
	return client, nil
}

// WaitForRPC polls the node until it answers or the context expires.
func (s *Supervisor) WaitForRPC(ctx context.Context) error {
	client, err := s.Client()
	if err != nil {
		return err
	}
	for {
		if _, err := client.GetBlockCount(); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("node rpc not reachable at %s: %v",
				s.cfg.RPCHost, ctx.Err())
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// Mine generates numBlocks blocks paying the configured miner address.
func (s *Supervisor) Mine(numBlocks int64) error {
	client, err := s.Client()
	if err != nil {
		return err
	}
	addr, err := btcutil.DecodeAddress(s.cfg.MinerAddress,
		&chaincfg.RegressionNetParams)
	if err != nil {
		return fmt.Errorf("bad miner address %q: %v", s.cfg.MinerAddress, err)
	}
	if _, err := client.GenerateToAddress(numBlocks, addr, nil); err != nil {
		return fmt.Errorf("error generating blocks: %v", err)
	}
	return nil
}

// StartMiner launches the background miner producing one block every
// configured interval. Calling it again on the same supervisor is a no-op.
func (s *Supervisor) StartMiner() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.minerStop != nil {
		return
	}
	log := logger.Logger()
	stop := make(chan struct{})
	done := make(chan struct{})
	s.minerStop = stop
	s.minerDone = done
	go func() {
		defer close(done)
		ticker := time.NewTicker(s.cfg.MineInterval())
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := s.Mine(1); err != nil {
					log.Warn().Err(err).Msg("background miner")
				}
			}
		}
	}()
	log.Info().Dur("interval", s.cfg.MineInterval()).Msg("background miner started")
}

// StopMiner stops the background miner and waits for it to exit. A
// supervisor without a running miner is left unchanged.
func (s *Supervisor) StopMiner() {
	s.mu.Lock()
	stop, done := s.minerStop, s.minerDone
	s.minerStop, s.minerDone = nil, nil
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Shutdown stops the miner and tears down everything this supervisor
// started. Containers it did not start are left alone.
func (s *Supervisor) Shutdown(ctx context.Context) error {
	s.StopMiner()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.Shutdown()
		s.client = nil
	}
	log := logger.Logger()
	var firstErr error
	for _, c := range []struct {
		name    string
		started *bool
	}{
		{s.cfg.ExplorerContainer, &s.explorerStarted},
		{s.cfg.NodeContainer, &s.nodeStarted},
	} {
		if !*c.started {
			continue
		}
		out, err := exec.CommandContext(ctx, "docker", "rm", "-f", c.name).CombinedOutput()
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("error removing container %s: %s: %v", c.name, out, err)
		}
		*c.started = false
		log.Info().Str("container", c.name).Msg("container removed")
	}
	return firstErr
}
