// Copyright 2021 Tetrate
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

package charpp

// Arguments is an ordered argument list. The order becomes the argv order.
type Arguments []string

// ToCharpp marshals the arguments. When prepend is given (usually the program path) it becomes argv[0] and the
// arguments follow it.
func (a Arguments) ToCharpp(prepend ...string) *Array {
	strs := make([]string, 0, len(prepend)+len(a))
	strs = append(strs, prepend...)
	strs = append(strs, a...)
	return newArray(strs)
}

// Append adds arguments to the end of the list.
func (a *Arguments) Append(args ...string) {
	*a = append(*a, args...)
}
