/*
Package domain contains the shared vocabulary of the toolshed catalog.

It is kept free of I/O so every other package can depend on it.

# Key Entities

  - Tool / Param: descriptors that drive pages, API schemas and MCP tool definitions.
  - DecodeError, ParseError, ConfigError, RangeError: the error taxonomy returned by every utility.
  - ToolEvent / LifecycleHooks: invocation callbacks used for logging and metrics.
*/
package domain
