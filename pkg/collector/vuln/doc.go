// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package vuln sweeps scope assets with CEL rules.
//
// Each rule is a boolean CEL expression over the asset, the ports it
// listens on and the subset bound to all interfaces. Assets are swept
// critical first and capped at the requested target count; a rule that
// holds raises one finding whose id is the rule id joined to the asset id
// with a colon.
//
//	sweeper, err := vuln.NewSweeper(vuln.DefaultRules())
//	if err != nil {
//	    return err
//	}
//	result, err := sweeper.Sweep(ctx, scope, inventory.Listeners, 8)
package vuln
