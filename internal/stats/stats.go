package stats

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Collector accumulates process-lifetime download counters.
type Collector struct {
	mu        sync.Mutex
	startTime time.Time

	started   int64
	completed int64
	failed    int64
	bytes     int64
}

func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

func (c *Collector) JobStarted() {
	c.mu.Lock()
	c.started++
	c.mu.Unlock()
}

func (c *Collector) JobCompleted(bytes int64) {
	c.mu.Lock()
	c.completed++
	c.bytes += bytes
	c.mu.Unlock()
}

func (c *Collector) JobFailed() {
	c.mu.Lock()
	c.failed++
	c.mu.Unlock()
}

type Counters struct {
	JobsStarted  int64  `json:"jobs_started"`
	JobsComplete int64  `json:"jobs_complete"`
	JobsFailed   int64  `json:"jobs_failed"`
	BytesFetched int64  `json:"bytes_fetched"`
	Uptime       string `json:"uptime"`
}

func (c *Collector) Counters() Counters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Counters{
		JobsStarted:  c.started,
		JobsComplete: c.completed,
		JobsFailed:   c.failed,
		BytesFetched: c.bytes,
		Uptime:       time.Since(c.startTime).Round(time.Second).String(),
	}
}

type SystemInfo struct {
	CPUPercent  float64 `json:"cpu_percent"`
	CPUCores    int     `json:"cpu_cores"`
	MemUsed     uint64  `json:"mem_used"`
	MemTotal    uint64  `json:"mem_total"`
	MemPercent  float64 `json:"mem_percent"`
	DiskFree    uint64  `json:"disk_free"`
	DiskPercent float64 `json:"disk_percent"`
	ProcessRSS  uint64  `json:"process_rss"`
	Goroutines  int     `json:"goroutines"`
	HeapAlloc   uint64  `json:"heap_alloc"`
	GoVersion   string  `json:"go_version"`
}

// SystemSnapshot gathers host and process metrics. Each probe is
// independent; a failing one just leaves its fields zero.
func SystemSnapshot() *SystemInfo {
	info := &SystemInfo{CPUCores: runtime.NumCPU()}

	if cpuPercent, err := cpu.Percent(0, false); err == nil && len(cpuPercent) > 0 {
		info.CPUPercent = cpuPercent[0]
	}

	if memInfo, err := mem.VirtualMemory(); err == nil {
		info.MemUsed = memInfo.Used
		info.MemTotal = memInfo.Total
		info.MemPercent = memInfo.UsedPercent
	}

	if diskInfo, err := disk.Usage("/"); err == nil {
		info.DiskFree = diskInfo.Free
		info.DiskPercent = diskInfo.UsedPercent
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if memInfo, err := proc.MemoryInfo(); err == nil {
			info.ProcessRSS = memInfo.RSS
		}
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	info.GoVersion = runtime.Version()
	info.Goroutines = runtime.NumGoroutine()
	info.HeapAlloc = m.Alloc

	return info
}
