package actions

import (
	"github.com/vcnkl/bounce/logger"
	"github.com/vcnkl/bounce/stores/runs"
)

type ResetAction struct {
	store *runs.Store
	log   logger.Logger
}

func NewResetAction(store *runs.Store, log logger.Logger) *ResetAction {
	return &ResetAction{
		store: store,
		log:   log,
	}
}

// Execute forgets the recorded runs of the named actions, or of every action
// when no names are given, so their next run goes through immediately.
// Names without a recorded run are ignored.
func (a *ResetAction) Execute(names []string) ([]string, error) {
	var cleared []string

	if len(names) == 0 {
		cleared = a.store.Names()
		a.store.Clear()
	} else {
		for _, name := range names {
			if a.store.Delete(name) {
				cleared = append(cleared, name)
			} else {
				a.log.Debug("no recorded run", logger.String("action", name))
			}
		}
	}

	if err := a.store.Save(); err != nil {
		return nil, err
	}

	return cleared, nil
}
