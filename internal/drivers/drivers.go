// Package drivers maps operator menu choices onto a resolved backend
// driver selection.
package drivers

import (
	"fmt"
	"io"

	"laraforge/internal/model"
	"laraforge/internal/prompt"
)

// Select is the pure mapping from three menu indexes (0-based, into
// model.QueueDrivers / CacheDrivers / SessionDrivers) to a DriverSelection.
// withFallback adds a database fallback for a redis queue driver.
func Select(queueIdx, cacheIdx, sessionIdx int, withFallback bool) (model.DriverSelection, error) {
	if queueIdx < 0 || queueIdx >= len(model.QueueDrivers) {
		return model.DriverSelection{}, fmt.Errorf("queue driver choice out of range: %d", queueIdx+1)
	}
	if cacheIdx < 0 || cacheIdx >= len(model.CacheDrivers) {
		return model.DriverSelection{}, fmt.Errorf("cache driver choice out of range: %d", cacheIdx+1)
	}
	if sessionIdx < 0 || sessionIdx >= len(model.SessionDrivers) {
		return model.DriverSelection{}, fmt.Errorf("session driver choice out of range: %d", sessionIdx+1)
	}

	sel := model.DriverSelection{
		Queue:   model.QueueDrivers[queueIdx],
		Cache:   model.CacheDrivers[cacheIdx],
		Session: model.SessionDrivers[sessionIdx],
	}
	if withFallback && sel.Queue == model.DriverRedis {
		fallback := model.DriverDatabase
		sel.QueueFallback = &fallback
	}
	sel.NeedsInMemoryStore = sel.Queue == model.DriverRedis ||
		sel.Cache == model.DriverRedis ||
		sel.Session == model.DriverRedis
	return sel, nil
}

// Collect walks the operator through the three driver menus.
func Collect(src prompt.Source) (model.DriverSelection, error) {
	queueIdx, err := src.Choose("queue_driver", "Queue driver:", driverLabels(model.QueueDrivers), 0)
	if err != nil {
		return model.DriverSelection{}, err
	}
	cacheIdx, err := src.Choose("cache_driver", "Cache driver:", driverLabels(model.CacheDrivers), 0)
	if err != nil {
		return model.DriverSelection{}, err
	}
	sessionIdx, err := src.Choose("session_driver", "Session driver:", driverLabels(model.SessionDrivers), 0)
	if err != nil {
		return model.DriverSelection{}, err
	}

	withFallback := false
	if model.QueueDrivers[queueIdx] == model.DriverRedis {
		withFallback, err = src.Confirm("queue_fallback", "Configure database as queue fallback?", true)
		if err != nil {
			return model.DriverSelection{}, err
		}
	}

	return Select(queueIdx, cacheIdx, sessionIdx, withFallback)
}

// Echo prints the resolved selection for operator confirmation.
func Echo(w io.Writer, sel model.DriverSelection) {
	fmt.Fprintf(w, "Queue driver:   %s\n", sel.Queue)
	if sel.QueueFallback != nil {
		fmt.Fprintf(w, "Queue fallback: %s\n", *sel.QueueFallback)
	}
	fmt.Fprintf(w, "Cache driver:   %s\n", sel.Cache)
	fmt.Fprintf(w, "Session driver: %s\n", sel.Session)
	if sel.NeedsInMemoryStore {
		fmt.Fprintln(w, "Redis will be provisioned.")
	}
}

func driverLabels(ds []model.Driver) []string {
	labels := make([]string, 0, len(ds))
	for _, d := range ds {
		labels = append(labels, string(d))
	}
	return labels
}
