package parser

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("cjfx.asm")
