package snapshot

import "sync"

// PropertyID is an interned shader property or temporary buffer name.
// IDs are process-wide and stable for the lifetime of the process.
type PropertyID int32

var propertyTable = struct {
	sync.RWMutex
	ids   map[string]PropertyID
	names []string
}{ids: make(map[string]PropertyID)}

// PropertyToID interns name and returns its ID.
func PropertyToID(name string) PropertyID {
	propertyTable.RLock()
	id, ok := propertyTable.ids[name]
	propertyTable.RUnlock()
	if ok {
		return id
	}

	propertyTable.Lock()
	defer propertyTable.Unlock()
	if id, ok := propertyTable.ids[name]; ok {
		return id
	}
	id = PropertyID(len(propertyTable.names))
	propertyTable.ids[name] = id
	propertyTable.names = append(propertyTable.names, name)
	return id
}

// Name returns the interned name, or "" for an unknown ID.
func (id PropertyID) Name() string {
	propertyTable.RLock()
	defer propertyTable.RUnlock()
	if id < 0 || int(id) >= len(propertyTable.names) {
		return ""
	}
	return propertyTable.names[id]
}

func (id PropertyID) String() string { return id.Name() }

// Shader properties and temporary buffers used by the capture passes.
var (
	// PropEffectFactor carries the tone factor in pass 0 and the blur
	// direction scaled by the blur factor in pass 1.
	PropEffectFactor = PropertyToID("_EffectFactor")

	// PropColorFactor carries the effect color in xyz and the color factor in w.
	PropColorFactor = PropertyToID("_ColorFactor")

	// TempCopy holds the full-resolution copy of the source frame.
	TempCopy = PropertyToID("_ScreenCopyId")

	// TempEffect1 and TempEffect2 are the ping-pong working buffers.
	TempEffect1 = PropertyToID("_EffectId1")
	TempEffect2 = PropertyToID("_EffectId2")
)
