/*
Package ports defines the driven ports (interfaces) of the toolshed.

These interfaces decouple the adapters from each other, so the HTTP and MCP
front ends work with any tool invoker and any rate limiting backend.

# Key Interfaces

  - ToolInvoker: Runs a named tool and lists the catalog (implemented by toolshed.Toolbox).
  - RateLimiter: Counts requests per key in fixed windows (memory and Redis adapters).
*/
package ports
