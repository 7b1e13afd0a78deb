package game

import (
	"time"

	"go.uber.org/zap"
)

// AutoPilotSystem advances the session one day per tick of a wall clock
type AutoPilotSystem struct {
	gameManager *GameManager
	ticker      *time.Ticker
	stopChan    chan struct{}
	doneChan    chan struct{}
}

// NewAutoPilotSystem creates a new auto-pilot system
func NewAutoPilotSystem(gameManager *GameManager, interval time.Duration) *AutoPilotSystem {
	return &AutoPilotSystem{
		gameManager: gameManager,
		ticker:      time.NewTicker(interval),
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}
}

// Start begins the auto-pilot system
func (aps *AutoPilotSystem) Start() {
	go func() {
		defer close(aps.doneChan)
		for {
			select {
			case <-aps.ticker.C:
				aps.gameManager.AdvanceDay()
				aps.gameManager.Logger.Debug("Auto-pilot advanced day",
					zap.Time("date", aps.gameManager.CurrentDate()))
			case <-aps.stopChan:
				aps.ticker.Stop()
				return
			}
		}
	}()
}

// Stop halts the auto-pilot system and waits for the running day to finish
func (aps *AutoPilotSystem) Stop() {
	close(aps.stopChan)
	<-aps.doneChan
}
