// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"code.hybscloud.com/kont"
)

// Exec runs a Cont-world task body as the root future of rt.
// Spawned tasks run while the body is suspended.
func Exec[R any](rt *Runtime, body kont.Eff[R]) (R, error) {
	return BlockOn(rt, FromEff(body))
}

// ExecExpr runs an Expr-world task body as the root future of rt.
// Spawned tasks run while the body is suspended.
func ExecExpr[R any](rt *Runtime, body kont.Expr[R]) (R, error) {
	return BlockOn(rt, FromExpr(body))
}
