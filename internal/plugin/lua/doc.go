// Package lua runs user hook scripts that can rewrite code before it is
// sent to the R session.
//
// A hook script is plain Lua. When it defines a global before_send
// function, rx calls it with the collated lines and a table describing
// the request, and sends whatever lines it returns:
//
//	local rx = require("rx")
//
//	function before_send(lines, info)
//	    rx.log("sending " .. #lines .. " lines from " .. info.path)
//	    local out = {}
//	    for _, line in ipairs(lines) do
//	        if not line:match("^%s*#") then
//	            table.insert(out, line)
//	        end
//	    end
//	    return out
//	end
//
// Returning nil keeps the lines unchanged.
//
// # Sandbox
//
// Scripts get the base, table, string and math libraries only. dofile,
// loadfile, load and loadstring are removed and require resolves only
// the rx module and the built-in safe libraries. Every call runs under a
// timeout.
//
// # rx module
//
//	rx.escape(s)  escape s for a double quoted shell or AppleScript string
//	rx.log(msg)   write msg to the rx log
package lua
