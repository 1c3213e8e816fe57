package debug

import (
	"path/filepath"
	"runtime"
	"strings"
)

// SymbolTable interns the call-site locations collected during circuit
// configuration and synthesis. It is shared by the constraint system (gate
// declaration sites) and the profiler.
type SymbolTable struct {
	Locations  []Location
	Functions  []Function
	mFunctions map[string]int `cbor:"-"` // frame.File+frame.Function to id in Functions
	mLocations map[uint64]int `cbor:"-"` // frame PC to location id in Locations
}

// Function is a function name and the file that defines it.
type Function struct {
	Name       string
	SystemName string
	Filename   string
}

// Location is a line in a Function.
type Location struct {
	FunctionID int
	Line       int64
}

func NewSymbolTable() SymbolTable {
	return SymbolTable{
		mFunctions: map[string]int{},
		mLocations: map[uint64]int{},
	}
}

// CollectStack walks the caller's stack and returns location ids into the
// table, most recent frame first. Collection stops at the user's Configure
// or Synthesize frame.
func (st *SymbolTable) CollectStack() []int {
	var r []int
	if Debug {
		r = make([]int, 0, 5)
	} else {
		r = make([]int, 0, 2)
	}

	var pc [20]uintptr
	n := runtime.Callers(3, pc[:])
	if n == 0 {
		// No pcs available. Stop now.
		// This can happen if the first argument to runtime.Callers is large.
		return r
	}
	frames := runtime.CallersFrames(pc[:n]) // pass only valid pcs to runtime.CallersFrames
	cpt := 0
	for {
		frame, more := frames.Next()
		fe := strings.Split(frame.Function, "/")
		function := fe[len(fe)-1]

		if !Debug {
			if cpt == 2 {
				// limit stack size to 2 when debug is not set.
				break
			}
			if strings.Contains(function, "runtime.gopanic") {
				continue
			}
			if strings.Contains(function, "constraint.(*System)") {
				continue
			}
			if strings.Contains(function, "constraint.(*VirtualCells)") {
				continue
			}
			if strings.Contains(frame.File, "plonkish/frontend") {
				continue
			}
			frame.File = filepath.Base(frame.File)
		}

		r = append(r, st.locationID(&frame))
		cpt++

		if !more {
			break
		}
		if stopCollecting(function) {
			break
		}
	}
	return r
}

func (st *SymbolTable) locationID(frame *runtime.Frame) int {
	if st.mLocations == nil {
		st.mLocations = map[uint64]int{}
		st.mFunctions = map[string]int{}
	}
	lID, ok := st.mLocations[uint64(frame.PC)]
	if !ok {
		// first let's see if we have the function.
		fID, ok := st.mFunctions[frame.File+frame.Function]
		if !ok {
			fe := strings.Split(frame.Function, "/")
			fName := fe[len(fe)-1]
			f := Function{
				Name:       fName,
				SystemName: frame.Function,
				Filename:   frame.File,
			}

			st.Functions = append(st.Functions, f)
			fID = len(st.Functions) - 1
			st.mFunctions[frame.File+frame.Function] = fID
		}

		l := Location{FunctionID: fID, Line: int64(frame.Line)}

		st.Locations = append(st.Locations, l)
		lID = len(st.Locations) - 1
		st.mLocations[uint64(frame.PC)] = lID
	}

	return lID
}
