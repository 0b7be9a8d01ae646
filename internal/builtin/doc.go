// Package builtin is the dispatch layer of the interpreter: free functions
// (math first, then the rest) and method tables keyed by receiver dtype.
//
// Назначение: разрешение вызовов по имени и числу аргументов.
// Не делает: поиска пользовательских функций (это vm + scope).
// Зависимости: internal/value, golang.org/x/text для строковых методов.
package builtin
