// Command tracecat inventories a directory tree of trace files, printing
// each file's origin (host, process id, start time) without replaying it.
package main

import (
	"flag"
	"fmt"
	"os"

	"tracewire/tools/tracecat"
)

func main() {
	root := flag.String("dir", ".", "directory tree to scan for trace files")
	cachePath := flag.String("cache", "", "path to a gzip-compressed scan cache (disabled if empty)")
	jsonFlag := flag.Bool("json", false, "emit JSON instead of human-readable output")
	flag.Parse()

	entries, err := tracecat.ScanCached(*root, *cachePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *jsonFlag {
		payload, err := tracecat.MarshalEntries(entries)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(string(payload))
		return
	}

	for _, entry := range entries {
		fmt.Printf("%s\n", entry.Path)
		fmt.Printf("  host: %s\n", entry.Host)
		fmt.Printf("  process_id: %d\n", entry.ProcessID)
		fmt.Printf("  start: %s\n", entry.StartTime().Format("2006-01-02T15:04:05.000Z"))
	}
}
