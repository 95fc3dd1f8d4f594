package config

import (
	"strconv"
	"strings"

	"github.com/sarchlab/archgen/mem/cache"
	"github.com/sarchlab/archgen/timing"
)

// SystemSpec selects the system model and carries extra compiler defines.
type SystemSpec struct {
	Model   string
	Defines []Define
}

// Define is a NAME or NAME=VALUE compiler definition.
type Define struct {
	Name  string
	Value string
}

// Flag renders the define as a -D compiler flag.
func (d Define) Flag() string {
	if d.Value == "" {
		return "-D" + d.Name
	}

	return "-D" + d.Name + "=" + d.Value
}

// CoreSpec describes the cores.
type CoreSpec struct {
	NumThreads int
	FetchWidth int
	ROBSize    int
	FTBSize    int
	Freq       timing.Freq
}

// CacheSpec describes one cache or TLB level.
type CacheSpec struct {
	Name string
	// SizeKB is the capacity the sets were derived from; 0 when the sets were
	// given directly.
	SizeKB            int
	Sets              int
	Ways              int
	Policy            cache.ReplacementPolicy
	NumMSHR           int
	NumRWPorts        int
	Latency           int
	ReadQueueSize     int
	WriteQueueSize    int
	PrefetchQueueSize int
	Mode              cache.Mode
}

// PagePolicy is the DRAM row buffer management policy.
type PagePolicy string

// Supported page policies.
const (
	OpenPage  PagePolicy = "OPEN"
	ClosePage PagePolicy = "CLOSE"
)

// DRAMSpec describes the DRAM subsystem.
type DRAMSpec struct {
	Type           string
	Freq           timing.Freq
	Channels       int
	Ranks          int
	BankGroups     int
	Banks          int
	Rows           int
	Columns        int
	BurstLength    int
	ReadQueueSize  int
	WriteQueueSize int
	CmdQueueSize   int
	PagePolicy     PagePolicy
	AddressMapping string
}

// PTWCacheSpec is the geometry of the page-table walker cache of one
// page-table level.
type PTWCacheSpec struct {
	Level int
	Sets  int
	Ways  int
}

// OSSpec describes the page table.
type OSSpec struct {
	Levels int
	// PTWCaches holds one entry per level from 1 to Levels-1.
	PTWCaches []PTWCacheSpec
}

// reader decodes fields of a validated section and keeps the first error.
type reader struct {
	sec *Section
	err error
}

func (r *reader) str(field string) string {
	v, _ := r.sec.Get(field)
	return strings.TrimSpace(v)
}

func (r *reader) integer(field string, lowest int) int {
	if r.err != nil {
		return 0
	}

	v, ok := r.sec.Get(field)
	if !ok {
		r.err = &MissingFieldError{Domain: r.sec.Name(), Field: field}
		return 0
	}

	n, err := atoi(r.sec, field, v)
	if err != nil {
		r.err = err
		return 0
	}

	if n < lowest {
		r.err = &DerivationError{
			Domain: r.sec.Name(),
			Field:  field,
			Value:  v,
			Reason: "must be at least " + strconv.Itoa(lowest),
		}

		return 0
	}

	return n
}

func (r *reader) freq(field string) timing.Freq {
	if r.err != nil {
		return 0
	}

	v := r.str(field)

	f, err := timing.ParseGHz(v)
	if err != nil {
		r.err = &DerivationError{
			Domain: r.sec.Name(), Field: field, Value: v, Reason: err.Error(),
		}
	}

	return f
}

func (r *reader) enumErr(field, value string, supported ...string) {
	if r.err == nil {
		r.err = &InvalidEnumError{
			Domain:    r.sec.Name(),
			Field:     field,
			Value:     value,
			Supported: supported,
		}
	}
}

// DecodeSystem reads a validated SYSTEM section.
func DecodeSystem(sec *Section) (SystemSpec, error) {
	r := &reader{sec: sec}
	s := SystemSpec{Model: strings.ToLower(r.str("model"))}

	for _, entry := range strings.Split(r.str("defines"), ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, value, _ := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)

		if name == "" {
			return SystemSpec{}, &DerivationError{
				Domain: sec.Name(),
				Field:  "defines",
				Value:  entry,
				Reason: "define has no name",
			}
		}

		s.Defines = append(s.Defines, Define{
			Name:  name,
			Value: strings.TrimSpace(value),
		})
	}

	return s, nil
}

// DecodeCore reads a validated CORE section.
func DecodeCore(sec *Section) (CoreSpec, error) {
	r := &reader{sec: sec}
	s := CoreSpec{
		NumThreads: r.integer("num_threads", 1),
		FetchWidth: r.integer("fetch_width", 1),
		ROBSize:    r.integer("rob_size", 1),
		FTBSize:    r.integer("ftb_size", 1),
		Freq:       r.freq("frequency_ghz"),
	}

	return s, r.err
}

// DecodeCache reads a validated cache or TLB section.
func DecodeCache(sec *Section) (CacheSpec, error) {
	r := &reader{sec: sec}
	s := CacheSpec{
		Name:              sec.Name(),
		Sets:              r.integer("sets", 1),
		Ways:              r.integer("ways", 1),
		NumMSHR:           r.integer("num_mshr", 0),
		NumRWPorts:        r.integer("num_rw_ports", 1),
		Latency:           r.integer("latency", 0),
		ReadQueueSize:     r.integer("read_queue_size", 0),
		WriteQueueSize:    r.integer("write_queue_size", 0),
		PrefetchQueueSize: r.integer("prefetch_queue_size", 0),
	}

	if sec.Has("size_kb") {
		s.SizeKB = r.integer("size_kb", 0)
	}

	policy := r.str("replacement_policy")
	if p, err := cache.ParseReplacementPolicy(policy); err != nil {
		r.enumErr("replacement_policy", policy,
			string(cache.LRU), string(cache.Rand))
	} else {
		s.Policy = p
	}

	mode := r.str("mode")
	if m, err := cache.ParseMode(mode); err != nil {
		r.enumErr("mode", mode,
			cache.ModeWriteAllocate.String(), cache.ModeInvalidateOnHit.String())
	} else {
		s.Mode = m
	}

	return s, r.err
}

// DecodeDRAM reads a validated DRAM section.
func DecodeDRAM(sec *Section) (DRAMSpec, error) {
	r := &reader{sec: sec}
	s := DRAMSpec{
		Type:           r.str("dram_type"),
		Freq:           r.freq("frequency_ghz"),
		Channels:       r.integer("channels", 1),
		Ranks:          r.integer("ranks", 1),
		BankGroups:     r.integer("bankgroups", 1),
		Banks:          r.integer("banks", 1),
		Rows:           r.integer("rows", 1),
		Columns:        r.integer("columns", 1),
		BurstLength:    r.integer("bl", 1),
		ReadQueueSize:  r.integer("read_queue_size", 1),
		WriteQueueSize: r.integer("write_queue_size", 1),
		CmdQueueSize:   r.integer("cmd_queue_size", 1),
		AddressMapping: r.str("address_mapping"),
	}

	switch p := PagePolicy(strings.ToUpper(r.str("page_policy"))); p {
	case OpenPage, ClosePage:
		s.PagePolicy = p
	default:
		r.enumErr("page_policy", r.str("page_policy"),
			string(OpenPage), string(ClosePage))
	}

	return s, r.err
}

// DecodeOS reads a validated OS section.
func DecodeOS(sec *Section) (OSSpec, error) {
	r := &reader{sec: sec}
	s := OSSpec{Levels: r.integer("levels", 1)}

	for i := 1; i < s.Levels && r.err == nil; i++ {
		f := ptwcField(i)
		v := r.str(f)

		setsStr, waysStr, ok := strings.Cut(v, ":")
		sets, errS := strconv.Atoi(strings.TrimSpace(setsStr))
		ways, errW := strconv.Atoi(strings.TrimSpace(waysStr))

		if !ok || errS != nil || errW != nil || sets <= 0 || ways <= 0 {
			return OSSpec{}, &DerivationError{
				Domain: sec.Name(),
				Field:  f,
				Value:  v,
				Reason: "expected <sets>:<ways>",
			}
		}

		s.PTWCaches = append(s.PTWCaches, PTWCacheSpec{
			Level: i, Sets: sets, Ways: ways,
		})
	}

	return s, r.err
}
