package compiler

import (
	"time"

	"go.uber.org/zap"

	"github.com/MavenRain/CrossNet-sub002/errors"
	"github.com/MavenRain/CrossNet-sub002/logger"
	"github.com/MavenRain/CrossNet-sub002/model"
)

// Pass is one step run over a whole module.
type Pass interface {
	Name() string
	Run(mod *model.Module) error
}

// PassManager runs Passes in order and stops at the first failure.
type PassManager struct {
	Module *model.Module
	Passes []Pass
	Log    *zap.SugaredLogger
}

// RunPasses runs every pass over pm.Module. Each pass is timed and the
// duration is logged at debug level.
func (pm *PassManager) RunPasses() error {
	log := pm.Log
	if log == nil {
		log = logger.Logger
	}
	for _, p := range pm.Passes {
		start := time.Now()
		err := p.Run(pm.Module)
		log.Debugw("pass finished",
			logger.FieldPass, p.Name(),
			logger.FieldDurationMS, time.Since(start).Milliseconds())
		if err != nil {
			return errors.Wrapf(err, "pass %s", p.Name())
		}
	}
	return nil
}

// methodsOf lists the methods declared by t, accessors held only by a
// property or event included. Each method appears once.
func methodsOf(t *model.TypeDecl) []*model.MethodDecl {
	seen := make(map[*model.MethodDecl]bool)
	var out []*model.MethodDecl
	add := func(m *model.MethodDecl) {
		if m != nil && !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	for _, m := range t.Methods {
		add(m)
	}
	for _, p := range t.Properties {
		add(p.Getter)
		add(p.Setter)
	}
	for _, ev := range t.Events {
		add(ev.Adder)
		add(ev.Remover)
	}
	return out
}
