/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Driftwood Systems. All Rights Reserved.
 */

package codec

import "encoding/json"

func marshalInts(nums []int) ([]byte, error) {
	return json.Marshal(nums)
}

func unmarshalInts(data []byte) ([]int, error) {
	var nums []int
	if err := json.Unmarshal(data, &nums); err != nil {
		return nil, err
	}
	return nums, nil
}
