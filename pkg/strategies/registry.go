package strategies

import "sort"

// selectable maps user-facing strategy keys to descriptors. Keys absent from
// this table (for example "ddp_cpu" or "tpu_spawn") are not valid user input
// even when a family of that name exists internally.
var selectable = map[string]Descriptor{
	"single_device":     {Family: FamilySingleDevice, FindUnusedParameters: true},
	"single_tpu":        {Family: FamilySingleTPU, FindUnusedParameters: true},
	"dp":                {Family: FamilyDataParallel, FindUnusedParameters: true},
	"ddp":               {Family: FamilyDDP, FindUnusedParameters: true},
	"ddp_spawn":         {Family: FamilyDDPSpawn, FindUnusedParameters: true},
	"ddp_sharded":       {Family: FamilyDDPSharded, FindUnusedParameters: true},
	"ddp_sharded_spawn": {Family: FamilyDDPSpawnSharded, FindUnusedParameters: true},
	"fsdp_native":       {Family: FamilyFSDPNative, FindUnusedParameters: true},
	"deepspeed":         {Family: FamilyDeepSpeed, FindUnusedParameters: true},

	"ddp_find_unused_parameters_false":       {Family: FamilyDDP},
	"ddp_spawn_find_unused_parameters_false": {Family: FamilyDDPSpawn},
}

// Lookup resolves a user-facing strategy key.
func Lookup(key string) (Descriptor, bool) {
	d, ok := selectable[key]
	if !ok {
		return Descriptor{}, false
	}
	d.Key = key
	return d, true
}

// Keys lists the valid strategy keys in sorted order, for diagnostics.
func Keys() []string {
	keys := make([]string, 0, len(selectable))
	for k := range selectable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SingleDevice returns the single-device descriptor used when one device is
// resolved and no strategy was requested.
func SingleDevice() Descriptor {
	d, _ := Lookup("single_device")
	return d
}

// SingleTPU returns the single-TPU descriptor.
func SingleTPU() Descriptor {
	d, _ := Lookup("single_tpu")
	return d
}

// TPUSpawn returns the internal TPU spawn descriptor chosen for multi-device
// TPU runs. It is not user selectable.
func TPUSpawn() Descriptor {
	return Descriptor{Key: "tpu_spawn", Family: FamilyTPUSpawn, FindUnusedParameters: true}
}

// DefaultMultiDevice returns the spawn-family default for several devices and
// no requested strategy.
func DefaultMultiDevice() Descriptor {
	d, _ := Lookup("ddp_spawn")
	return d
}
