package config

import "fmt"

// Field declares one schema entry. A field without a default is required.
type Field struct {
	Name     string
	Default  string
	Required bool
}

// Optional declares a field with a default value.
func Optional(name string, def any) Field {
	return Field{Name: name, Default: fmt.Sprint(def)}
}

// Required declares a field that must be present.
func Required(name string) Field {
	return Field{Name: name, Required: true}
}

// Schema is the ordered list of fields of a domain.
type Schema []Field

// Apply fills every missing optional field of sec with its default. The first
// missing required field is reported as a MissingFieldError.
func (s Schema) Apply(sec *Section) error {
	for _, f := range s {
		if sec.Has(f.Name) {
			continue
		}

		if f.Required {
			return &MissingFieldError{Domain: sec.Name(), Field: f.Name}
		}

		sec.Set(f.Name, f.Default)
	}

	return nil
}

// SystemSchema lists the SYSTEM fields.
var SystemSchema = Schema{
	Optional("model", "complex"),
	Optional("defines", ""),
}

// CoreSchema lists the CORE fields.
var CoreSchema = Schema{
	Optional("num_threads", 1),
	Optional("fetch_width", 4),
	Optional("rob_size", 256),
	Optional("ftb_size", 64),
	Optional("frequency_ghz", 4.0),
}

// CacheSchema lists the fields shared by every cache and TLB level.
var CacheSchema = Schema{
	Optional("sets", 64),
	Optional("ways", 8),
	Optional("num_mshr", 8),
	Optional("num_rw_ports", 2),
	Optional("read_queue_size", 64),
	Optional("write_queue_size", 64),
	Optional("prefetch_queue_size", 32),
	Optional("latency", 4),
	Optional("mode", ""),
	Optional("replacement_policy", "LRU"),
}

// DRAMSchema lists the DRAM fields.
var DRAMSchema = Schema{
	Required("dram_type"),
	Optional("frequency_ghz", 2.4),
	Optional("channels", 2),
	Optional("ranks", 1),
	Optional("bankgroups", 8),
	Optional("banks", 4),
	Optional("rows", 65536),
	Optional("columns", 128),
	Optional("bl", 16),
	Optional("read_queue_size", 128),
	Optional("write_queue_size", 128),
	Optional("cmd_queue_size", 16),
	Optional("page_policy", "OPEN"),
	Optional("address_mapping", "MOP4"),
}

// OSSchema lists the OS fields. The per-level ptwc_<i>_sw fields beyond the
// defaults are checked against the configured number of levels.
var OSSchema = Schema{
	Optional("levels", 4),
	Optional("ptwc_3_sw", "1:2"),
	Optional("ptwc_2_sw", "1:4"),
	Optional("ptwc_1_sw", "4:8"),
}
