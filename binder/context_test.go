/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package binder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestBindingContext 测试表名与别名的位置记录
func TestBindingContext(t *testing.T) {
	ctx := NewBindingContext()
	ctx.Add("persons", 0)
	ctx.Add("c", 1)
	ctx.Add("persons", 2)
	ctx.Add("C", 3)

	assert.Equal(t, 3, ctx.Len())
	assert.Equal(t, []int{0, 2}, ctx.Positions("persons"))
	assert.Equal(t, []int{0, 2}, ctx.Positions("PERSONS"))
	assert.Empty(t, ctx.Positions("nosuch"))
	assert.Equal(t, []string{"persons"}, ctx.Repeated())

	t.Run("精确匹配优先", func(t *testing.T) {
		assert.Equal(t, []int{1}, ctx.Positions("c"))
		assert.Equal(t, []int{3}, ctx.Positions("C"))
	})

	t.Run("大小写折叠后合并", func(t *testing.T) {
		ctx := NewBindingContext()
		ctx.Add("Cars", 2)
		ctx.Add("CARS", 0)
		assert.Equal(t, []int{0, 2}, ctx.Positions("cars"))
		assert.Empty(t, ctx.Repeated())
	})
}
