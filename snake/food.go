package snake

// 超过这个占用率后直接枚举空位，不再随机重试
const enumerateOccupancy = 0.5

// placeFood 随机选择一个既不是墙也不在蛇身上的格子放食物
func (e *Engine) placeFood() error {
	interior := (e.width - 2) * (e.height - 2)
	free := interior - len(e.snake)
	if free <= 0 {
		return ErrBoardFull
	}

	if float64(len(e.snake)) < enumerateOccupancy*float64(interior) {
		total := e.width * e.height
		// 失败概率极低，次数用完就退回枚举
		for attempt := 0; attempt < 4*total; attempt++ {
			i := e.rng.Intn(total)
			if !e.IsWall(i) && !e.occupied[i] {
				e.food = i
				return nil
			}
		}
	}

	pick := e.rng.Intn(free)
	for i := range e.occupied {
		if e.IsWall(i) || e.occupied[i] {
			continue
		}
		if pick == 0 {
			e.food = i
			return nil
		}
		pick--
	}
	return ErrBoardFull
}
