// Package contracts provides the core message types for the crosswire
// channel pipeline.
//
// The pipeline itself is payload-agnostic: channels and interceptors only
// depend on the Message interface and pass message values through untouched.
// BaseMessage is the embeddable base for typed messages; GenericMessage is
// the header-plus-payload form for callers without typed messages.
package contracts
