// Package filehttp реализует loopback-выдачу зарегистрированных файлов.
// Единственный эндпоинт:
//   - GET /{token}[/{любой суффикс}] — отдаёт файл целиком; суффикс игнорируется и
//     позволяет клиенту подставить отображаемое имя файла.
//
// Неизвестный токен даёт 404, ошибка открытия или определения размера — 500,
// оба ответа с пустым телом. Range и условные запросы не поддерживаются.
package filehttp
