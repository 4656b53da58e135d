// Package reliability provides retry policies used by transports when
// delivery to an external broker fails transiently.
package reliability
