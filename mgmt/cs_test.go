package mgmt

import (
	"testing"
	"time"

	"github.com/named-data/ndncs/fw"
	"github.com/named-data/ndncs/ndn"
	"github.com/named-data/ndncs/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nextThreadID keeps Content Store counters of different tests apart.
var nextThreadID = 100

func startThreads(t *testing.T, n int) []*fw.Thread {
	oldThreads, oldCapacity := fw.Threads, table.CsCapacity()
	fw.Threads = make(map[int]*fw.Thread)
	threads := make([]*fw.Thread, 0, n)
	for i := 0; i < n; i++ {
		thread := fw.NewThread(nextThreadID)
		nextThreadID++
		fw.Threads[i] = thread
		threads = append(threads, thread)
		go thread.Run()
	}
	t.Cleanup(func() {
		for _, thread := range threads {
			thread.TellToQuit()
			<-thread.HasQuit
		}
		fw.Threads = oldThreads
		table.SetCsCapacity(oldCapacity)
	})
	return threads
}

func insertData(t *testing.T, thread *fw.Thread, data ...*ndn.Data) {
	for _, d := range data {
		d := d
		thread.Call(func(cs *table.Cs) {
			_, err := cs.Insert(d, false)
			assert.NoError(t, err)
		})
	}
}

func TestContentStoreModuleUnknownVerb(t *testing.T) {
	module := new(ContentStoreModule)
	response := module.HandleCommand("frobnicate", nil)
	assert.Equal(t, uint64(501), response.StatusCode)
}

func TestContentStoreModuleConfig(t *testing.T) {
	threads := startThreads(t, 2)
	module := new(ContentStoreModule)

	response := module.HandleCommand("config", nil)
	assert.Equal(t, uint64(400), response.StatusCode)

	response = module.HandleCommand("config", &ControlParameters{Flags: uint64Ptr(0)})
	assert.Equal(t, uint64(409), response.StatusCode)

	response = module.HandleCommand("config", &ControlParameters{
		Capacity: uint64Ptr(10),
		Flags:    uint64Ptr(uint64(CsFlagEnableServe)),
		Mask:     uint64Ptr(uint64(CsFlagEnableAdmit)),
	})
	require.Equal(t, uint64(200), response.StatusCode)
	assert.Equal(t, uint64(10), *response.Params.Capacity)
	assert.Equal(t, uint64(CsFlagEnableServe), *response.Params.Flags)
	assert.Equal(t, 10, table.CsCapacity())

	for _, thread := range threads {
		var limit int
		var admitting, serving bool
		thread.Call(func(cs *table.Cs) {
			limit = cs.Limit()
			admitting = cs.IsAdmitting()
			serving = cs.IsServing()
		})
		assert.Equal(t, 10, limit)
		assert.False(t, admitting)
		assert.True(t, serving)
	}
}

// pinnedPolicy never finds an entry to evict.
type pinnedPolicy struct {
	limit int
}

func (p *pinnedPolicy) String() string              { return "pinned" }
func (p *pinnedPolicy) SetEvictor(table.CsEvictor)  {}
func (p *pinnedPolicy) SetLimit(limit int)          { p.limit = limit }
func (p *pinnedPolicy) Limit() int                  { return p.limit }
func (p *pinnedPolicy) AfterInsert(*table.CsEntry)  {}
func (p *pinnedPolicy) AfterRefresh(*table.CsEntry) {}
func (p *pinnedPolicy) BeforeErase(*table.CsEntry)  {}
func (p *pinnedPolicy) BeforeUse(*table.CsEntry)    {}
func (p *pinnedPolicy) EvictEntry() bool            { return false }

func TestContentStoreModuleConfigRollsBack(t *testing.T) {
	threads := startThreads(t, 2)
	module := new(ContentStoreModule)
	oldCapacity := table.CsCapacity()

	threads[1].Call(func(cs *table.Cs) { cs.SetPolicy(new(pinnedPolicy)) })
	insertData(t, threads[1], ndn.NewData([]byte("pinned-1")), ndn.NewData([]byte("pinned-2")))

	response := module.HandleCommand("config", &ControlParameters{
		Capacity: uint64Ptr(1),
		Flags:    uint64Ptr(0),
		Mask:     uint64Ptr(uint64(CsFlagEnableAdmit)),
	})
	assert.Equal(t, uint64(500), response.StatusCode)
	assert.Equal(t, oldCapacity, table.CsCapacity())

	for _, thread := range threads {
		var limit int
		var admitting bool
		thread.Call(func(cs *table.Cs) {
			limit = cs.Limit()
			admitting = cs.IsAdmitting()
		})
		assert.Equal(t, oldCapacity, limit)
		assert.True(t, admitting)
	}
	var size int
	threads[1].Call(func(cs *table.Cs) { size = cs.Size() })
	assert.Equal(t, 2, size)
}

func TestContentStoreModuleEraseAndQuery(t *testing.T) {
	threads := startThreads(t, 2)
	module := new(ContentStoreModule)
	insertData(t, threads[0],
		ndn.NewDataWithHash([]byte{0x01, 0x01}, nil),
		ndn.NewDataWithHash([]byte{0x02, 0x01}, nil))
	insertData(t, threads[1],
		ndn.NewDataWithHash([]byte{0x01, 0x02}, nil),
		ndn.NewDataWithHash([]byte{0x01, 0x03}, nil))

	response := module.HandleCommand("query", nil)
	require.Equal(t, uint64(200), response.StatusCode)
	assert.Len(t, response.Entries, 4)

	response = module.HandleCommand("erase", &ControlParameters{Prefix: []byte{0x01}, Count: uint64Ptr(2)})
	require.Equal(t, uint64(200), response.StatusCode)
	assert.Equal(t, uint64(2), *response.Params.NErased)
	assert.Equal(t, uint64(2), *response.Params.Count)

	response = module.HandleCommand("erase", &ControlParameters{Prefix: []byte{0x01}})
	require.Equal(t, uint64(200), response.StatusCode)
	assert.Equal(t, uint64(1), *response.Params.NErased)
	assert.Nil(t, response.Params.Count)

	response = module.HandleCommand("erase", &ControlParameters{Count: uint64Ptr(0)})
	assert.Equal(t, uint64(409), response.StatusCode)

	response = module.HandleCommand("query", nil)
	assert.Equal(t, []string{ndn.HashString([]byte{0x02, 0x01})}, response.Entries)
}

func TestContentStoreModuleInfo(t *testing.T) {
	threads := startThreads(t, 2)
	module := new(ContentStoreModule)
	data := ndn.NewData([]byte("info"))
	insertData(t, threads[0], data)
	threads[0].Call(func(cs *table.Cs) {
		cs.Lookup(ndn.NewInterest(data.Hash()))
		cs.Lookup(ndn.NewInterest([]byte{0xff}))
	})

	assert.Eventually(t, func() bool {
		response := module.HandleCommand("info", nil)
		return response.Info.NCsEntries == 1
	}, time.Second, time.Millisecond)

	response := module.HandleCommand("info", nil)
	require.Equal(t, uint64(200), response.StatusCode)
	assert.Equal(t, uint64(table.CsCapacity()), response.Info.Capacity)
	assert.Equal(t, CsFlagEnableAdmit|CsFlagEnableServe, response.Info.Flags)
	assert.Equal(t, uint64(1), response.Info.NHits)
	assert.Equal(t, uint64(1), response.Info.NMisses)
}
