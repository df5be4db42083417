package monitor

import "time"

// Status is the last observed state of every probed dependency.
type Status struct {
	Services   map[string]bool `json:"services"`
	BufferSize int             `json:"buffer_size"`
	LastCheck  time.Time       `json:"last_check"`
}

// Healthy reports whether every probed dependency answered.
func (s Status) Healthy() bool {
	for _, ok := range s.Services {
		if !ok {
			return false
		}
	}
	return true
}

func (s Status) clone() Status {
	services := make(map[string]bool, len(s.Services))
	for name, ok := range s.Services {
		services[name] = ok
	}
	s.Services = services
	return s
}
