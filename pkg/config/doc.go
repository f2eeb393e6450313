/*
Package config manages the optional rc-file for cpc.

	            +-------------+
	            |   Config    |
	            | (rc-file)   |
	            +------+------+
	                   |
	     +-------------+------------+
	     |             |            |
	+----+----+   +----+----+  +----+----+
	|   HCL   |   |  YAML   |  |  JSON   |
	| Parser  |   | Parser  |  | Parser  |
	+---------+   +---------+  +---------+

🎯 Purpose:
- Discovers .cpcrc.{hcl,yaml,yml,json} in the working directory
- Pins the curl/rsync/atool binaries to use
- Carries default extra flags per transport and rsync exclude globs
- Falls back to working defaults when no rc-file exists

🔄 Flow:
1. Load discovers (or is given) an rc-file
2. A registered format parser decodes it
3. Validate fills tool defaults and checks exclude globs
4. The transport layer consumes the validated config

🤝 Interfaces:
- Parser: format-specific parsing, selected by filename

📝 Design Philosophy:
A missing rc-file is the normal case, not an error. Every knob has a
default that makes a bare `cpc SRC DST` work on a stock system.
*/
package config
