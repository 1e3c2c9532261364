// Package fuzztests houses Go fuzz harnesses for the source map codec and the
// output run. Its goal is to guard against panics and broken re-encoding on
// arbitrary map text.
//
// Назначение: прогонять произвольные байты через sourcemap.Parse/Decode,
// Generator и output.Run.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/sourcemap, internal/output.

package fuzztests
