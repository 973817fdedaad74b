package kasparov

import (
	"github.com/decred/slog"
	"github.com/kasparovwallet/kasparov/addrmgr"
	"github.com/kasparovwallet/kasparov/internal/build"
	"github.com/kasparovwallet/kasparov/rpcclient"
	"github.com/kasparovwallet/kasparov/txbuilder"
	"github.com/kasparovwallet/kasparov/txstore"
	"github.com/kasparovwallet/kasparov/utxoset"
	"github.com/kasparovwallet/kasparov/wallet"
)

// replaceableLogger is a thin wrapper around a logger so that the backing
// slog.Logger can be swapped once the real root backend is ready, without
// any package holding a stale reference.
type replaceableLogger struct {
	slog.Logger
	subsystem string
}

var (
	// pkgLoggers tracks every module-level logger registered below so
	// SetupLoggers can replace all of them in one pass.
	pkgLoggers []*replaceableLogger

	addPkgLogger = func(subsystem string) *replaceableLogger {
		l := &replaceableLogger{
			Logger:    build.NewSubLogger(subsystem, nil),
			subsystem: subsystem,
		}
		pkgLoggers = append(pkgLoggers, l)
		return l
	}

	walletLog = addPkgLogger("WLLT")
)

// SetupLoggers initializes every package-level logger with the given root
// backend, routing all subsystem output through one rotating log file.
func SetupLoggers(backend *slog.Backend) {
	for _, l := range pkgLoggers {
		l.Logger = build.NewSubLogger(l.subsystem, backend)
	}

	addrmgr.UseLogger(build.NewSubLogger("ADDR", backend))
	utxoset.UseLogger(build.NewSubLogger("UTXO", backend))
	txstore.UseLogger(build.NewSubLogger("TXST", backend))
	txbuilder.UseLogger(build.NewSubLogger("TXBL", backend))
	rpcclient.UseLogger(build.NewSubLogger("RPCC", backend))
	wallet.UseLogger(build.NewSubLogger("WLLT", backend))
}
