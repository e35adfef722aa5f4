package main

import (
	"fmt"

	"github.com/enixame/spring-challenge-2025/internal/solver"
)

type solveRequest struct {
	Depth int     `json:"depth"`
	Board [][]int `json:"board"`
}

type solveResponse struct {
	JobID    string       `json:"job_id"`
	Depth    int          `json:"depth"`
	Board    string       `json:"board"`
	Checksum uint64       `json:"checksum"`
	Stats    solver.Stats `json:"stats"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type memoCacheStatusResponse struct {
	Count         int     `json:"count"`
	Capacity      int     `json:"capacity"`
	Usage         float64 `json:"usage"`
	Full          bool    `json:"full"`
	EntryBytes    uint64  `json:"entry_bytes"`
	UsedBytes     uint64  `json:"used_bytes"`
	CapacityBytes uint64  `json:"capacity_bytes"`
	Generation    uint32  `json:"generation"`
}

type memoCacheEntryDTO struct {
	Key         string `json:"key"`
	Depth       int    `json:"depth"`
	Sum         uint64 `json:"sum"`
	Hits        uint32 `json:"hits"`
	GenWritten  uint32 `json:"gen_written"`
	GenLastUsed uint32 `json:"gen_last_used"`
}

type memoCacheEntriesResponse struct {
	Items  []memoCacheEntryDTO `json:"items"`
	Offset int                 `json:"offset"`
	Limit  int                 `json:"limit"`
	Total  int                 `json:"total"`
}

func memoEntryToDTO(entry solver.MemoEntry) memoCacheEntryDTO {
	return memoCacheEntryDTO{
		Key:         fmt.Sprintf("0x%016x", entry.Key),
		Depth:       entry.Depth,
		Sum:         entry.Sum,
		Hits:        entry.Hits,
		GenWritten:  entry.GenWritten,
		GenLastUsed: entry.GenLastUsed,
	}
}
