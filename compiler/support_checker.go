// support_checker.go rejects model constructs the emitter has no rendering
// for, before any text is produced.
package compiler

import (
	"go.uber.org/zap"

	"github.com/MavenRain/CrossNet-sub002/errors"
	"github.com/MavenRain/CrossNet-sub002/logger"
	"github.com/MavenRain/CrossNet-sub002/model"
)

// SupportChecker walks every method body of a module and records each
// unsupported construct it meets.
type SupportChecker struct {
	Excluded map[string]bool
	Log      *zap.SugaredLogger

	findings []*NotImplementedError
}

func (sc *SupportChecker) Name() string { return "SupportCheck" }

// Findings returns what the last Run recorded, in traversal order.
func (sc *SupportChecker) Findings() []*NotImplementedError { return sc.findings }

// Run checks mod. The returned error wraps ErrNotImplemented and names the
// first finding; the rest are available from Findings.
func (sc *SupportChecker) Run(mod *model.Module) error {
	sc.findings = nil
	for _, t := range mod.Types {
		sc.checkType(t)
	}
	if len(sc.findings) == 0 {
		return nil
	}
	err := errors.WithStack(sc.findings[0])
	if n := len(sc.findings); n > 1 {
		err = errors.WithDetailf(err, "%d unsupported constructs in total", n)
	}
	return err
}

func (sc *SupportChecker) checkType(t *model.TypeDecl) {
	if sc.Excluded[t.FullName()] {
		return
	}
	for _, m := range methodsOf(t) {
		sc.checkMethod(t, m)
	}
	for _, n := range t.NestedTypes {
		sc.checkType(n)
	}
}

func (sc *SupportChecker) checkMethod(t *model.TypeDecl, m *model.MethodDecl) {
	if m.Body == nil {
		return
	}
	model.Inspect(m.Body, func(n model.Node) bool {
		var construct string
		switch n.(type) {
		case *model.AnonymousMethod:
			construct = "anonymous method"
		case *model.Lambda:
			construct = "lambda"
		default:
			return true
		}
		sc.report(&NotImplementedError{Construct: construct, Type: t.FullName(), Member: m.Name})
		return false
	})
}

func (sc *SupportChecker) report(e *NotImplementedError) {
	log := sc.Log
	if log == nil {
		log = logger.Logger
	}
	log.Infow("unsupported construct",
		logger.FieldType, e.Type,
		logger.FieldMember, e.Member,
		"construct", e.Construct)
	sc.findings = append(sc.findings, e)
}
