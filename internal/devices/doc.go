// Package devices watches udev netlink for sound card hotplug and feeds
// audio device change events into the event bridge.
package devices
