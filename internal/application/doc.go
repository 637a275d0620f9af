// Package application is the composition root. It resolves the environment
// record once, owns the Provider, and wires the handlers, router and HTTP
// server around it so the main package stays focused on CLI parsing and
// orchestration.
package application
