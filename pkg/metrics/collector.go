package metrics

import (
	"time"
)

// QueueLener reports the current offline queue depth.
type QueueLener interface {
	Len() (int, error)
}

// RunningLister reports the agent identities with a live worker.
type RunningLister interface {
	Running() ([]string, error)
}

// Collector periodically refreshes gauges whose source of truth lives
// outside this process's counters: the on-disk queue depth (another
// process may drain it) and the set of live workers.
type Collector struct {
	queue  QueueLener
	agents RunningLister
	stopCh chan struct{}
}

// NewCollector creates a collector. Either source may be nil and is
// then skipped.
func NewCollector(queue QueueLener, agents RunningLister) *Collector {
	return &Collector{
		queue:  queue,
		agents: agents,
		stopCh: make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		// Collect immediately on start
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	c.collectQueueMetrics()
	c.collectAgentMetrics()
}

func (c *Collector) collectQueueMetrics() {
	if c.queue == nil {
		return
	}

	depth, err := c.queue.Len()
	if err != nil {
		UpdateComponent("queue", false, err.Error())
		return
	}

	QueueDepth.Set(float64(depth))
	UpdateComponent("queue", true, "")
}

func (c *Collector) collectAgentMetrics() {
	if c.agents == nil {
		return
	}

	running, err := c.agents.Running()
	if err != nil {
		return
	}

	AgentsRunning.Set(float64(len(running)))
}
