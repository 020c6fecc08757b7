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

package scheduler

import (
	"time"

	cnserrors "github.com/NVIDIA/scanwatch/pkg/errors"
)

// NextTick returns the first instant strictly after now that is a whole
// multiple of interval since the Unix epoch. The interval must be a positive
// whole number of seconds.
func NextTick(interval time.Duration, now time.Time) (time.Time, error) {
	if interval < time.Second || interval%time.Second != 0 {
		return time.Time{}, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			"interval must be a positive whole number of seconds", map[string]any{"interval": interval.String()})
	}
	step := int64(interval / time.Second)
	epoch := now.Unix()

	remainder := epoch % step
	if remainder < 0 {
		remainder += step
	}
	return time.Unix(epoch-remainder+step, 0).UTC(), nil
}
