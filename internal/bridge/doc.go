// Package bridge receives named cross-process events and invokes the
// matching registered entry point, tolerating startup ordering races with a
// single delayed retry. Update events are not dispatched to entry points;
// they synthesize local notifications instead, decoupling the transport
// message from UI consumption.
package bridge
