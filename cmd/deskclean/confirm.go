package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// confirm 反复提示直到得到 yes/y/no/n（不区分大小写）。
// 输入结束（EOF）与 ctx 取消（Ctrl-C）都视为拒绝。
//
// 读取放在单独的 goroutine 里：阻塞在终端上的 Read 无法被打断，只能不再等它。
func confirm(ctx context.Context, in io.Reader, out io.Writer, prompt string) (bool, error) {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		if ctx.Err() != nil {
			return false, nil
		}
		fmt.Fprint(out, prompt)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return false, nil
		case err := <-readErr:
			fmt.Fprintln(out)
			if err != nil {
				return false, fmt.Errorf("读取确认输入失败：%w", err)
			}
			return false, nil
		case line := <-lines:
			if ok, valid := parseAnswer(line); valid {
				return ok, nil
			}
			fmt.Fprintln(out, "请输入 yes/y 或 no/n。")
		}
	}
}

func parseAnswer(s string) (yes bool, valid bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y":
		return true, true
	case "no", "n":
		return false, true
	default:
		return false, false
	}
}
