// Package types defines the opaque model handles, the capability interfaces
// that CAD providers implement, property value types, and the standard error
// values shared by the flattener, the resolvers, and the providers.
//
// Handles (Component, Model, ConfigurationHandle) are owned by the provider.
// Nothing in this module creates, mutates, or frees them; callers only read
// them and pass them back to the provider that produced them.
package types
