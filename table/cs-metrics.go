/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

// CsEvictReason says why an entry left the Content Store.
type CsEvictReason int

const (
	// CsEvictPolicy is an eviction chosen by the replacement policy to make room.
	CsEvictPolicy CsEvictReason = iota
	// CsEvictLimit is an eviction caused by lowering the capacity limit.
	CsEvictLimit
	// CsEvictErase is a removal requested through Erase.
	CsEvictErase
)

func (r CsEvictReason) String() string {
	switch r {
	case CsEvictPolicy:
		return "policy"
	case CsEvictLimit:
		return "limit"
	case CsEvictErase:
		return "erase"
	default:
		return "unknown"
	}
}

// CsMetrics receives Content Store events. Implementations are called from the forwarding
// thread that owns the Content Store.
type CsMetrics interface {
	Hit()
	Miss()
	Insert(result CsInsertResult)
	Evict(reason CsEvictReason)
	Size(entries int, capacity int)
}

// NoopCsMetrics discards all events.
type NoopCsMetrics struct{}

func (NoopCsMetrics) Hit()                  {}
func (NoopCsMetrics) Miss()                 {}
func (NoopCsMetrics) Insert(CsInsertResult) {}
func (NoopCsMetrics) Evict(CsEvictReason)   {}
func (NoopCsMetrics) Size(int, int)         {}

// MultiCsMetrics forwards every event to each of its members.
type MultiCsMetrics []CsMetrics

func (m MultiCsMetrics) Hit() {
	for _, metrics := range m {
		metrics.Hit()
	}
}

func (m MultiCsMetrics) Miss() {
	for _, metrics := range m {
		metrics.Miss()
	}
}

func (m MultiCsMetrics) Insert(result CsInsertResult) {
	for _, metrics := range m {
		metrics.Insert(result)
	}
}

func (m MultiCsMetrics) Evict(reason CsEvictReason) {
	for _, metrics := range m {
		metrics.Evict(reason)
	}
}

func (m MultiCsMetrics) Size(entries int, capacity int) {
	for _, metrics := range m {
		metrics.Size(entries, capacity)
	}
}

// csHitRatioAlpha is the weight of a new sample in the hit ratio moving average.
const csHitRatioAlpha = 0.125

// MeasurementCsMetrics records Content Store counters in a Measurements table under a key
// prefix, so they can be read from other goroutines.
type MeasurementCsMetrics struct {
	table       *Measurements
	prefix      string
	hitsKey     string
	missesKey   string
	hitRatioKey string
	entriesKey  string
	capacityKey string
	insertKeys  [CsRefreshed + 1]string
	evictKeys   [CsEvictErase + 1]string
}

// NewMeasurementCsMetrics creates a CsMetrics that writes to table under prefix.
func NewMeasurementCsMetrics(table *Measurements, prefix string) *MeasurementCsMetrics {
	m := &MeasurementCsMetrics{table: table, prefix: prefix}
	m.hitsKey = m.Key("hits")
	m.missesKey = m.Key("misses")
	m.hitRatioKey = m.Key("hit_ratio")
	m.entriesKey = m.Key("entries")
	m.capacityKey = m.Key("capacity")
	for result := range m.insertKeys {
		m.insertKeys[result] = m.Key(CsInsertResult(result).String())
	}
	for reason := range m.evictKeys {
		m.evictKeys[reason] = m.Key("evicted_" + CsEvictReason(reason).String())
	}
	return m
}

// Key returns the measurement key of the named counter.
func (m *MeasurementCsMetrics) Key(name string) string {
	return m.prefix + "." + name
}

func (m *MeasurementCsMetrics) Hit() {
	m.table.AddToInt(m.hitsKey, 1)
	m.table.AddSampleToEWMA(m.hitRatioKey, 1, csHitRatioAlpha)
}

func (m *MeasurementCsMetrics) Miss() {
	m.table.AddToInt(m.missesKey, 1)
	m.table.AddSampleToEWMA(m.hitRatioKey, 0, csHitRatioAlpha)
}

func (m *MeasurementCsMetrics) Insert(result CsInsertResult) {
	if result < 0 || int(result) >= len(m.insertKeys) {
		result = CsRejected
	}
	m.table.AddToInt(m.insertKeys[result], 1)
}

func (m *MeasurementCsMetrics) Evict(reason CsEvictReason) {
	if reason < 0 || int(reason) >= len(m.evictKeys) {
		m.table.AddToInt(m.Key("evicted_"+reason.String()), 1)
		return
	}
	m.table.AddToInt(m.evictKeys[reason], 1)
}

func (m *MeasurementCsMetrics) Size(entries int, capacity int) {
	m.table.Store(m.entriesKey, entries)
	m.table.Store(m.capacityKey, capacity)
}

var (
	_ CsMetrics = NoopCsMetrics{}
	_ CsMetrics = MultiCsMetrics(nil)
	_ CsMetrics = (*MeasurementCsMetrics)(nil)
)
